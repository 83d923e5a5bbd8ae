// Package model holds the primitives shared by every domain package: date
// layouts, status state machines and the errors they return.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carepoint/hms/internal/platform/memstore"
)

// DateLayout is the wire format of date-only fields (date_of_birth, due_date, ...).
const DateLayout = "2006-01-02"

// TimeOfDayLayout is the wire format of doctor availability slot bounds.
const TimeOfDayLayout = "15:04"

// AllFilter is the sentinel a caller passes to mean "no status filter".
const AllFilter = "All"

var (
	// ErrInvalidTransition is matched by every *TransitionError.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrUnknownReference is returned when strict reference checks are enabled
	// and a patient_id or doctor_id does not resolve.
	ErrUnknownReference = errors.New("unknown reference")
	// ErrValidation wraps required-field failures on mutation entry points.
	ErrValidation = errors.New("validation failed")
	// ErrPreconditionRequired is wrapped by operations that need an explicit
	// confirmation from the caller.
	ErrPreconditionRequired = errors.New("precondition required")

	ErrNotFound        = memstore.ErrNotFound
	ErrVersionConflict = memstore.ErrVersionConflict
)

// TransitionError reports a status change the entity's state machine forbids.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s for %s", e.From, e.To, e.Entity)
}

// Is lets errors.Is(err, ErrInvalidTransition) match.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// Transitions is an explicit state machine: each status maps to the statuses
// reachable from it. A status with an empty slice is terminal.
type Transitions[S ~string] map[S][]S

// Valid reports whether s is a known status.
func (t Transitions[S]) Valid(s S) bool {
	_, ok := t[s]
	return ok
}

// Validate checks the change from -> to. Setting a status to its current
// value is always allowed.
func (t Transitions[S]) Validate(entity string, from, to S) error {
	if !t.Valid(to) {
		return fmt.Errorf("%w: unknown %s status %q", ErrValidation, entity, to)
	}
	if from == to {
		return nil
	}
	for _, s := range t[from] {
		if s == to {
			return nil
		}
	}
	return &TransitionError{Entity: entity, From: string(from), To: string(to)}
}

// Required returns an ErrValidation-wrapped error naming the first empty field.
// Fields are given as name/value pairs.
func Required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, pairs[i])
		}
	}
	return nil
}

// ParseDate parses a date-only field, returning the zero time for blank input.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}

// SameDay reports whether a and b fall on the same calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// ContainsFold is a case-insensitive substring match. An empty needle matches.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ReferenceChecker resolves foreign keys when strict reference checks are on.
type ReferenceChecker interface {
	PatientExists(id string) bool
	DoctorExists(id string) bool
}

// VerifyReferences checks patientID and doctorID against rc. A nil rc means
// strict checks are off; an empty id is not checked.
func VerifyReferences(rc ReferenceChecker, patientID, doctorID string) error {
	if rc == nil {
		return nil
	}
	if patientID != "" && !rc.PatientExists(patientID) {
		return fmt.Errorf("%w: patient %s", ErrUnknownReference, patientID)
	}
	if doctorID != "" && !rc.DoctorExists(doctorID) {
		return fmt.Errorf("%w: doctor %s", ErrUnknownReference, doctorID)
	}
	return nil
}
