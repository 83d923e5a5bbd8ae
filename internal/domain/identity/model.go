package identity

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/carepoint/hms/internal/domain/model"
)

type PatientStatus string

const (
	PatientActive     PatientStatus = "Active"
	PatientInactive   PatientStatus = "Inactive"
	PatientDischarged PatientStatus = "Discharged"
)

var PatientTransitions = model.Transitions[PatientStatus]{
	PatientActive:     {PatientInactive, PatientDischarged},
	PatientInactive:   {PatientActive, PatientDischarged},
	PatientDischarged: {PatientActive},
}

type DoctorStatus string

const (
	DoctorAvailable DoctorStatus = "Available"
	DoctorOnLeave   DoctorStatus = "On Leave"
	DoctorBusy      DoctorStatus = "Busy"
)

var DoctorTransitions = model.Transitions[DoctorStatus]{
	DoctorAvailable: {DoctorBusy, DoctorOnLeave},
	DoctorBusy:      {DoctorAvailable, DoctorOnLeave},
	DoctorOnLeave:   {DoctorAvailable},
}

var validGenders = map[string]bool{
	"Male":   true,
	"Female": true,
	"Other":  true,
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	PhoneNumber  string `json:"phone_number"`
}

type InsuranceInfo struct {
	Provider     string  `json:"provider"`
	PolicyNumber string  `json:"policy_number"`
	GroupNumber  *string `json:"group_number,omitempty"`
}

// Patient is a registered patient. CreatedAt doubles as the admission date
// the records archive groups by; a zero value means "never admitted".
type Patient struct {
	ID               string           `json:"id"`
	PatientNumber    string           `json:"patient_number"`
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	DateOfBirth      string           `json:"date_of_birth"`
	Gender           string           `json:"gender"`
	BloodGroup       string           `json:"blood_group"`
	PhoneNumber      string           `json:"phone_number"`
	Email            *string          `json:"email,omitempty"`
	Address          string           `json:"address"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
	Allergies        []string         `json:"allergies"`
	InsuranceInfo    *InsuranceInfo   `json:"insurance_info,omitempty"`
	Status           PatientStatus    `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
	VersionID        int              `json:"version_id"`
}

func (p Patient) Key() string  { return p.ID }
func (p Patient) Version() int { return p.VersionID }

func (p Patient) Clone() Patient {
	p.Allergies = slices.Clone(p.Allergies)
	if p.Email != nil {
		e := *p.Email
		p.Email = &e
	}
	if p.InsuranceInfo != nil {
		ins := *p.InsuranceInfo
		if ins.GroupNumber != nil {
			g := *ins.GroupNumber
			ins.GroupNumber = &g
		}
		p.InsuranceInfo = &ins
	}
	return p
}

// WithMeta stamps id and version. A patient stored without a patient number
// gets one derived from its id.
func (p Patient) WithMeta(id string, version int) Patient {
	p.ID = id
	p.VersionID = version
	if p.PatientNumber == "" {
		p.PatientNumber = PatientNumberFor(id)
	}
	return p
}

// FullName joins first and last name the way lists display them.
func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Age is the difference between the current year and the birth year, which
// is what the front desk shows. An unparseable birth date yields 0.
func (p *Patient) Age(now time.Time) int {
	dob, err := model.ParseDate(p.DateOfBirth)
	if err != nil || dob.IsZero() {
		return 0
	}
	return now.Year() - dob.Year()
}

// Admitted reports whether the patient carries an admission timestamp.
func (p *Patient) Admitted() bool {
	return !p.CreatedAt.IsZero()
}

// PatientNumberFor derives the display code for a patient id: PT-0007 for
// numeric ids, the upper-cased first eight hex digits otherwise.
func PatientNumberFor(id string) string {
	if n, err := strconv.Atoi(id); err == nil {
		return fmt.Sprintf("PT-%04d", n)
	}
	short := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}
	return "PT-" + short
}

// checkPatientNumber keeps patient numbers unique. A number derived from
// the id is moved to the next free one; an explicit number already held by
// another patient is rejected.
func checkPatientNumber(p Patient, others []Patient) (Patient, error) {
	taken := make(map[string]bool, len(others))
	for _, o := range others {
		taken[o.PatientNumber] = true
	}
	if !taken[p.PatientNumber] {
		return p, nil
	}
	if p.PatientNumber != PatientNumberFor(p.ID) {
		return p, fmt.Errorf("%w: patient_number %s already in use", model.ErrValidation, p.PatientNumber)
	}
	if n, err := strconv.Atoi(p.ID); err == nil {
		for taken[p.PatientNumber] {
			n++
			p.PatientNumber = fmt.Sprintf("PT-%04d", n)
		}
		return p, nil
	}
	base := p.PatientNumber
	for i := 2; taken[p.PatientNumber]; i++ {
		p.PatientNumber = fmt.Sprintf("%s-%d", base, i)
	}
	return p, nil
}

// normalizeAllergies trims entries and drops blanks and case-insensitive
// duplicates, keeping the first spelling.
func normalizeAllergies(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		k := strings.ToLower(a)
		if a == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, a)
	}
	return out
}

// TimeSlot is a working window within one weekday, bounds in HH:MM.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Availability maps weekday names (Monday ... Sunday) to working windows. A
// missing or empty day means the doctor does not work that day.
type Availability map[string][]TimeSlot

type Doctor struct {
	ID                string       `json:"id"`
	FirstName         string       `json:"first_name"`
	LastName          string       `json:"last_name"`
	Specialization    string       `json:"specialization"`
	Department        string       `json:"department"`
	PhoneNumber       string       `json:"phone_number"`
	Email             string       `json:"email"`
	LicenseNumber     string       `json:"license_number"`
	YearsOfExperience int          `json:"years_of_experience"`
	Availability      Availability `json:"availability"`
	Status            DoctorStatus `json:"status"`
	ConsultationFee   float64      `json:"consultation_fee"`
	VersionID         int          `json:"version_id"`
}

func (d Doctor) Key() string  { return d.ID }
func (d Doctor) Version() int { return d.VersionID }

func (d Doctor) Clone() Doctor {
	if d.Availability != nil {
		av := make(Availability, len(d.Availability))
		for day, slots := range d.Availability {
			av[day] = slices.Clone(slots)
		}
		d.Availability = av
	}
	return d
}

func (d Doctor) WithMeta(id string, version int) Doctor {
	d.ID = id
	d.VersionID = version
	return d
}

func (d *Doctor) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// AvailableAt reports whether t falls inside one of the doctor's slots for
// t's weekday. Slot ends are exclusive.
func (d *Doctor) AvailableAt(t time.Time) bool {
	hhmm := t.Format(model.TimeOfDayLayout)
	for _, s := range d.Availability[t.Weekday().String()] {
		if hhmm >= s.Start && hhmm < s.End {
			return true
		}
	}
	return false
}

var weekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// normalizeAvailability validates slot bounds and pads times to HH:MM. Slots
// keep the order they were given in.
func normalizeAvailability(av Availability) (Availability, error) {
	out := make(Availability, len(av))
	for day, slots := range av {
		if !weekdays[day] {
			return nil, fmt.Errorf("%w: unknown weekday %q", model.ErrValidation, day)
		}
		cp := slices.Clone(slots)
		for i, s := range cp {
			start, err1 := time.Parse(model.TimeOfDayLayout, s.Start)
			end, err2 := time.Parse(model.TimeOfDayLayout, s.End)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("%w: %s slot %s-%s is not HH:MM", model.ErrValidation, day, s.Start, s.End)
			}
			if !start.Before(end) {
				return nil, fmt.Errorf("%w: %s slot %s-%s ends before it starts", model.ErrValidation, day, s.Start, s.End)
			}
			cp[i] = TimeSlot{Start: start.Format(model.TimeOfDayLayout), End: end.Format(model.TimeOfDayLayout)}
		}
		out[day] = cp
	}
	return out, nil
}
