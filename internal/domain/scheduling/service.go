package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/carepoint/hms/internal/domain/model"
)

type Service struct {
	appointments AppointmentRepository
	loc          *time.Location
	refs         model.ReferenceChecker
}

// NewService returns a scheduling service. loc decides which calendar day
// "today" is; nil means the process-local zone.
func NewService(appointments AppointmentRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{appointments: appointments, loc: loc}
}

// SetReferenceChecker turns on strict patient/doctor reference checks.
func (s *Service) SetReferenceChecker(rc model.ReferenceChecker) {
	s.refs = rc
}

// Location is the zone used for calendar-day comparisons.
func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) AddAppointment(ctx context.Context, a *Appointment) error {
	if err := model.Required("patient_id", a.PatientID, "doctor_id", a.DoctorID); err != nil {
		return err
	}
	if a.DateTime.IsZero() {
		return fmt.Errorf("%w: date_time is required", model.ErrValidation)
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if a.Duration == 0 {
		a.Duration = DefaultDuration
	}
	if a.Priority == "" {
		a.Priority = PriorityMedium
	}
	if a.Type == "" {
		a.Type = TypeConsultation
	}
	if a.Duration < 0 {
		return fmt.Errorf("%w: duration must be positive", model.ErrValidation)
	}
	if !AppointmentTransitions.Valid(a.Status) {
		return fmt.Errorf("%w: invalid appointment status: %s", model.ErrValidation, a.Status)
	}
	if !validTypes[a.Type] {
		return fmt.Errorf("%w: invalid appointment type: %s", model.ErrValidation, a.Type)
	}
	if !validPriorities[a.Priority] {
		return fmt.Errorf("%w: invalid priority: %s", model.ErrValidation, a.Priority)
	}
	if err := model.VerifyReferences(s.refs, a.PatientID, a.DoctorID); err != nil {
		return err
	}
	a.ID = ""
	return s.appointments.Create(ctx, a)
}

func (s *Service) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context) ([]*Appointment, error) {
	return s.appointments.List(ctx)
}

// AppointmentsByStatus filters on status; model.AllFilter or "" returns all.
func (s *Service) AppointmentsByStatus(ctx context.Context, status string) ([]*Appointment, error) {
	if status == "" || status == model.AllFilter {
		return s.appointments.List(ctx)
	}
	return s.appointments.Filter(ctx, func(a *Appointment) bool { return string(a.Status) == status })
}

func (s *Service) AppointmentsForDoctor(ctx context.Context, doctorID string) ([]*Appointment, error) {
	return s.appointments.Filter(ctx, func(a *Appointment) bool { return a.DoctorID == doctorID })
}

func (s *Service) AppointmentsForPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	return s.appointments.Filter(ctx, func(a *Appointment) bool { return a.PatientID == patientID })
}

// AppointmentsToday returns appointments whose date_time falls on now's
// calendar day in the service location.
func (s *Service) AppointmentsToday(ctx context.Context, now time.Time) ([]*Appointment, error) {
	return s.appointments.Filter(ctx, func(a *Appointment) bool { return model.SameDay(a.DateTime, now, s.loc) })
}

// IsToday reports whether a is on now's calendar day in the service location.
func (s *Service) IsToday(a *Appointment, now time.Time) bool {
	return model.SameDay(a.DateTime, now, s.loc)
}

func (s *Service) UpdateAppointmentStatus(ctx context.Context, id string, status AppointmentStatus) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := model.CheckVersion(ctx, "appointment", id, a.VersionID); err != nil {
		return nil, err
	}
	if err := AppointmentTransitions.Validate("appointment", a.Status, status); err != nil {
		return nil, err
	}
	if a.Status == status {
		return a, nil
	}
	a.Status = status
	if err := s.appointments.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Cancel moves the appointment to Cancelled.
func (s *Service) Cancel(ctx context.Context, id string) (*Appointment, error) {
	return s.UpdateAppointmentStatus(ctx, id, StatusCancelled)
}

// DoctorStats counts today's appointments, distinct patients and pending
// (still Scheduled) appointments for doctorID.
func (s *Service) DoctorStats(ctx context.Context, doctorID string, now time.Time) (DoctorStats, error) {
	appts, err := s.AppointmentsForDoctor(ctx, doctorID)
	if err != nil {
		return DoctorStats{}, err
	}
	var st DoctorStats
	patients := make(map[string]bool)
	for _, a := range appts {
		if s.IsToday(a, now) {
			st.TodayCount++
		}
		if a.Status == StatusScheduled {
			st.PendingCount++
		}
		patients[a.PatientID] = true
	}
	st.PatientCount = len(patients)
	return st, nil
}
