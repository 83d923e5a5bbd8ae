package scheduling

import (
	"time"

	"github.com/carepoint/hms/internal/domain/model"
)

type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "Scheduled"
	StatusInProgress AppointmentStatus = "In Progress"
	StatusCompleted  AppointmentStatus = "Completed"
	StatusCancelled  AppointmentStatus = "Cancelled"
	StatusNoShow     AppointmentStatus = "No Show"
)

// AppointmentTransitions: Completed, Cancelled and No Show are terminal.
var AppointmentTransitions = model.Transitions[AppointmentStatus]{
	StatusScheduled:  {StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusNoShow:     {},
}

const (
	TypeConsultation = "Consultation"
	TypeFollowUp     = "Follow-up"
	TypeEmergency    = "Emergency"
	TypeSurgery      = "Surgery"
)

var validTypes = map[string]bool{
	TypeConsultation: true,
	TypeFollowUp:     true,
	TypeEmergency:    true,
	TypeSurgery:      true,
}

const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

var validPriorities = map[string]bool{
	PriorityLow:      true,
	PriorityMedium:   true,
	PriorityHigh:     true,
	PriorityCritical: true,
}

// DefaultDuration is applied when an appointment is booked without one.
const DefaultDuration = 30

type Appointment struct {
	ID        string            `json:"id"`
	PatientID string            `json:"patient_id"`
	DoctorID  string            `json:"doctor_id"`
	DateTime  time.Time         `json:"date_time"`
	Duration  int               `json:"duration"`
	Type      string            `json:"type"`
	Status    AppointmentStatus `json:"status"`
	Priority  string            `json:"priority"`
	Symptoms  string            `json:"symptoms,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	VersionID int               `json:"version_id"`
}

func (a Appointment) Key() string        { return a.ID }
func (a Appointment) Version() int       { return a.VersionID }
func (a Appointment) Clone() Appointment { return a }
func (a Appointment) WithMeta(id string, version int) Appointment {
	a.ID = id
	a.VersionID = version
	return a
}

// End is the instant the appointment slot closes.
func (a *Appointment) End() time.Time {
	return a.DateTime.Add(time.Duration(a.Duration) * time.Minute)
}

// DoctorStats are the per-doctor counters shown on the doctor dashboard.
type DoctorStats struct {
	TodayCount   int `json:"today_count"`
	PatientCount int `json:"patient_count"`
	PendingCount int `json:"pending_count"`
}
