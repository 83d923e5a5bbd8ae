package clinical

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carepoint/hms/internal/domain/identity"
	"github.com/carepoint/hms/internal/domain/model"
)

// PatientLister supplies the patients the admission archive is built from.
type PatientLister interface {
	ListPatients(ctx context.Context) ([]*identity.Patient, error)
}

type Service struct {
	records  RecordRepository
	patients PatientLister
	loc      *time.Location
	refs     model.ReferenceChecker
	now      func() time.Time
}

func NewService(records RecordRepository, patients PatientLister, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{records: records, patients: patients, loc: loc, now: time.Now}
}

func (s *Service) SetReferenceChecker(rc model.ReferenceChecker) {
	s.refs = rc
}

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// AddRecord stores a new medical record. Prescriptions without a medication
// name are dropped; line ids and missing dates are filled in.
func (s *Service) AddRecord(ctx context.Context, r *MedicalRecord) error {
	if err := model.Required("patient_id", r.PatientID, "doctor_id", r.DoctorID, "diagnosis", r.Diagnosis); err != nil {
		return err
	}
	if err := model.VerifyReferences(s.refs, r.PatientID, r.DoctorID); err != nil {
		return err
	}
	if r.Date.IsZero() {
		r.Date = s.now()
	}
	if _, err := model.ParseDate(r.FollowUpDate); err != nil {
		return fmt.Errorf("%w: follow_up_date must be YYYY-MM-DD", model.ErrValidation)
	}
	recordDay := r.Date.In(s.loc).Format(model.DateLayout)

	kept := make([]Prescription, 0, len(r.Prescriptions))
	for _, p := range r.Prescriptions {
		if strings.TrimSpace(p.MedicationName) == "" {
			continue
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.PrescribedDate == "" {
			p.PrescribedDate = recordDay
		}
		kept = append(kept, p)
	}
	r.Prescriptions = kept

	for i := range r.LabResults {
		lr := &r.LabResults[i]
		if err := model.Required("test_name", lr.TestName); err != nil {
			return err
		}
		if lr.Status == "" {
			lr.Status = "Normal"
		}
		if !validLabStatuses[lr.Status] {
			return fmt.Errorf("%w: invalid lab result status: %s", model.ErrValidation, lr.Status)
		}
		if lr.ID == "" {
			lr.ID = uuid.NewString()
		}
		if lr.TestDate == "" {
			lr.TestDate = recordDay
		}
	}

	r.ID = ""
	return s.records.Create(ctx, r)
}

func (s *Service) GetRecord(ctx context.Context, id string) (*MedicalRecord, error) {
	return s.records.GetByID(ctx, id)
}

func (s *Service) ListRecords(ctx context.Context) ([]*MedicalRecord, error) {
	return s.records.List(ctx)
}

func (s *Service) RecordsForPatient(ctx context.Context, patientID string) ([]*MedicalRecord, error) {
	return s.records.Filter(ctx, func(r *MedicalRecord) bool { return r.PatientID == patientID })
}

func (s *Service) RecordsForDoctor(ctx context.Context, doctorID string) ([]*MedicalRecord, error) {
	return s.records.Filter(ctx, func(r *MedicalRecord) bool { return r.DoctorID == doctorID })
}

// RecordsOn returns the records dated on day's calendar date.
func (s *Service) RecordsOn(ctx context.Context, day time.Time) ([]*MedicalRecord, error) {
	return s.records.Filter(ctx, func(r *MedicalRecord) bool { return model.SameDay(r.Date, day, s.loc) })
}

// PendingFollowUps returns records whose follow-up date is today or later.
func (s *Service) PendingFollowUps(ctx context.Context, now time.Time) ([]*MedicalRecord, error) {
	today := now.In(s.loc).Format(model.DateLayout)
	return s.records.Filter(ctx, func(r *MedicalRecord) bool {
		return r.FollowUpDate != "" && r.FollowUpDate >= today
	})
}

// PrescriptionCounts returns the number of prescriptions written per patient.
func (s *Service) PrescriptionCounts(ctx context.Context) (map[string]int, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.PatientID] += len(r.Prescriptions)
	}
	return counts, nil
}

// Grouped builds the admission archive, narrowed by term and year.
func (s *Service) Grouped(ctx context.Context, term, year string) ([]YearGroup, error) {
	patients, err := s.patients.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, err
	}
	groups := GroupByAdmissionDate(patients, records, s.loc)
	return FilterGroups(groups, term, year), nil
}
