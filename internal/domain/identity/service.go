package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/carepoint/hms/internal/domain/model"
)

// ErrConfirmationRequired is returned by RemoveDoctor when the caller did not
// confirm the removal.
var ErrConfirmationRequired = fmt.Errorf("%w: doctor removal must be confirmed", model.ErrPreconditionRequired)

// Confirmation is the explicit acknowledgement RemoveDoctor requires.
type Confirmation bool

const Confirmed Confirmation = true

type Service struct {
	patients PatientRepository
	doctors  DoctorRepository
	now      func() time.Time
}

func NewService(patients PatientRepository, doctors DoctorRepository) *Service {
	return &Service{patients: patients, doctors: doctors, now: time.Now}
}

// SetClock replaces the time source used for created_at stamps.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// -- Patient --

func (s *Service) AddPatient(ctx context.Context, p *Patient) error {
	if err := model.Required("first_name", p.FirstName, "last_name", p.LastName, "phone_number", p.PhoneNumber); err != nil {
		return err
	}
	if err := validatePatient(p); err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = PatientActive
	}
	if !PatientTransitions.Valid(p.Status) {
		return fmt.Errorf("%w: invalid status: %s", model.ErrValidation, p.Status)
	}
	p.ID = ""
	p.CreatedAt = s.now()
	p.Allergies = normalizeAllergies(p.Allergies)
	return s.patients.Create(ctx, p)
}

func validatePatient(p *Patient) error {
	if p.Gender != "" && !validGenders[p.Gender] {
		return fmt.Errorf("%w: invalid gender: %s", model.ErrValidation, p.Gender)
	}
	if _, err := model.ParseDate(p.DateOfBirth); err != nil {
		return fmt.Errorf("%w: date_of_birth must be YYYY-MM-DD", model.ErrValidation)
	}
	return nil
}

// GetPatient returns the patient or an error wrapping model.ErrNotFound.
func (s *Service) GetPatient(ctx context.Context, id string) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// FindPatient is the lookup joins use: a dangling id is simply absent.
func (s *Service) FindPatient(ctx context.Context, id string) (*Patient, bool) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, false
	}
	return p, true
}

func (s *Service) ListPatients(ctx context.Context) ([]*Patient, error) {
	return s.patients.List(ctx)
}

// SearchPatients matches term case-insensitively against the full name and
// email, and as a plain substring against the phone number. An empty term
// matches everyone.
func (s *Service) SearchPatients(ctx context.Context, term string) ([]*Patient, error) {
	term = strings.TrimSpace(term)
	return s.patients.Filter(ctx, func(p *Patient) bool {
		if term == "" {
			return true
		}
		email := ""
		if p.Email != nil {
			email = *p.Email
		}
		return model.ContainsFold(p.FullName(), term) ||
			model.ContainsFold(email, term) ||
			strings.Contains(p.PhoneNumber, term)
	})
}

// UpdatePatient replaces the editable fields of an existing patient. The id,
// admission timestamp and patient number are kept; a status change must be
// allowed by PatientTransitions.
func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if err := model.Required("first_name", p.FirstName, "last_name", p.LastName, "phone_number", p.PhoneNumber); err != nil {
		return err
	}
	if err := validatePatient(p); err != nil {
		return err
	}
	current, err := s.patients.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if p.VersionID != 0 && p.VersionID != current.VersionID {
		return fmt.Errorf("patient %s at version %d, got %d: %w", p.ID, current.VersionID, p.VersionID, model.ErrVersionConflict)
	}
	if err := model.CheckVersion(ctx, "patient", p.ID, current.VersionID); err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = current.Status
	}
	if err := PatientTransitions.Validate("patient", current.Status, p.Status); err != nil {
		return err
	}
	p.CreatedAt = current.CreatedAt
	if p.PatientNumber == "" {
		p.PatientNumber = current.PatientNumber
	}
	p.Allergies = normalizeAllergies(p.Allergies)
	p.VersionID = current.VersionID
	return s.patients.Update(ctx, p)
}

func (s *Service) SetPatientStatus(ctx context.Context, id string, status PatientStatus) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := model.CheckVersion(ctx, "patient", id, p.VersionID); err != nil {
		return nil, err
	}
	if err := PatientTransitions.Validate("patient", p.Status, status); err != nil {
		return nil, err
	}
	if p.Status == status {
		return p, nil
	}
	p.Status = status
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// -- Doctor --

func (s *Service) AddDoctor(ctx context.Context, d *Doctor) error {
	if err := model.Required("first_name", d.FirstName, "last_name", d.LastName, "specialization", d.Specialization); err != nil {
		return err
	}
	if d.Status == "" {
		d.Status = DoctorAvailable
	}
	if !DoctorTransitions.Valid(d.Status) {
		return fmt.Errorf("%w: invalid status: %s", model.ErrValidation, d.Status)
	}
	if d.YearsOfExperience < 0 || d.ConsultationFee < 0 {
		return fmt.Errorf("%w: years_of_experience and consultation_fee must not be negative", model.ErrValidation)
	}
	av, err := normalizeAvailability(d.Availability)
	if err != nil {
		return err
	}
	d.Availability = av
	d.ID = ""
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id string) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) FindDoctor(ctx context.Context, id string) (*Doctor, bool) {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, false
	}
	return d, true
}

func (s *Service) ListDoctors(ctx context.Context) ([]*Doctor, error) {
	return s.doctors.List(ctx)
}

// SearchDoctors matches term case-insensitively against the full name,
// specialization and department.
func (s *Service) SearchDoctors(ctx context.Context, term string) ([]*Doctor, error) {
	term = strings.TrimSpace(term)
	return s.doctors.Filter(ctx, func(d *Doctor) bool {
		return model.ContainsFold(d.FullName(), term) ||
			model.ContainsFold(d.Specialization, term) ||
			model.ContainsFold(d.Department, term)
	})
}

// AvailableDoctors returns doctors whose status is Available and whose
// schedule covers at.
func (s *Service) AvailableDoctors(ctx context.Context, at time.Time) ([]*Doctor, error) {
	return s.doctors.Filter(ctx, func(d *Doctor) bool {
		return d.Status == DoctorAvailable && d.AvailableAt(at)
	})
}

func (s *Service) SetDoctorStatus(ctx context.Context, id string, status DoctorStatus) (*Doctor, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := model.CheckVersion(ctx, "doctor", id, d.VersionID); err != nil {
		return nil, err
	}
	if err := DoctorTransitions.Validate("doctor", d.Status, status); err != nil {
		return nil, err
	}
	if d.Status == status {
		return d, nil
	}
	d.Status = status
	if err := s.doctors.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// RemoveDoctor deletes a doctor. Appointments and records that reference the
// doctor are left in place and resolve to "not found" afterwards.
func (s *Service) RemoveDoctor(ctx context.Context, id string, confirm Confirmation) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := model.CheckVersion(ctx, "doctor", id, d.VersionID); err != nil {
		return err
	}
	return s.doctors.Delete(ctx, id)
}

// PatientExists and DoctorExists make the service a model.ReferenceChecker.
func (s *Service) PatientExists(id string) bool {
	_, err := s.patients.GetByID(context.Background(), id)
	return err == nil
}

func (s *Service) DoctorExists(id string) bool {
	_, err := s.doctors.GetByID(context.Background(), id)
	return err == nil
}
