package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carepoint/hms/internal/domain/model"
	"github.com/carepoint/hms/internal/platform/memstore"
)

var day = time.Date(2024, 1, 25, 8, 0, 0, 0, time.UTC)

func seedAppointments() []Appointment {
	return []Appointment{
		{ID: "1", PatientID: "1", DoctorID: "1", DateTime: time.Date(2024, 1, 25, 10, 0, 0, 0, time.UTC),
			Duration: 30, Type: TypeConsultation, Status: StatusScheduled, Priority: PriorityHigh},
		{ID: "2", PatientID: "2", DoctorID: "2", DateTime: time.Date(2024, 1, 25, 14, 30, 0, 0, time.UTC),
			Duration: 45, Type: TypeFollowUp, Status: StatusScheduled, Priority: PriorityMedium},
	}
}

func newTestService() *Service {
	coll := memstore.New("appointments", memstore.Sequential, seedAppointments())
	return NewService(NewAppointmentRepoMem(coll), time.UTC)
}

type refs struct{}

func (refs) PatientExists(id string) bool { return id == "1" || id == "2" }
func (refs) DoctorExists(id string) bool  { return id == "1" || id == "2" }

func TestService_AddAppointment_Defaults(t *testing.T) {
	svc := newTestService()
	a := &Appointment{PatientID: "1", DoctorID: "2", DateTime: day.Add(24 * time.Hour)}
	if err := svc.AddAppointment(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID != "3" {
		t.Errorf("expected id 3, got %s", a.ID)
	}
	if a.Status != StatusScheduled || a.Duration != DefaultDuration || a.Priority != PriorityMedium || a.Type != TypeConsultation {
		t.Errorf("defaults not applied: %+v", a)
	}
}

func TestService_AddAppointment_PatientSeesBoth(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a := &Appointment{PatientID: "1", DoctorID: "2", DateTime: day.Add(24 * time.Hour)}
	if err := svc.AddAppointment(ctx, a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := svc.AppointmentsForPatient(ctx, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].ID != "3" {
		t.Errorf("expected seed appointment plus id 3, got %+v", got)
	}
}

func TestService_AddAppointment_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	bad := []*Appointment{
		{DoctorID: "1", DateTime: day},
		{PatientID: "1", DoctorID: "1"},
		{PatientID: "1", DoctorID: "1", DateTime: day, Type: "Massage"},
		{PatientID: "1", DoctorID: "1", DateTime: day, Priority: "Urgent"},
		{PatientID: "1", DoctorID: "1", DateTime: day, Duration: -5},
	}
	for i, a := range bad {
		if err := svc.AddAppointment(ctx, a); !errors.Is(err, model.ErrValidation) {
			t.Errorf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestService_AddAppointment_LenientReferences(t *testing.T) {
	svc := newTestService()
	a := &Appointment{PatientID: "404", DoctorID: "404", DateTime: day}
	if err := svc.AddAppointment(context.Background(), a); err != nil {
		t.Fatalf("dangling ids are allowed by default: %v", err)
	}
}

func TestService_AddAppointment_StrictReferences(t *testing.T) {
	svc := newTestService()
	svc.SetReferenceChecker(refs{})
	err := svc.AddAppointment(context.Background(), &Appointment{PatientID: "404", DoctorID: "1", DateTime: day})
	if !errors.Is(err, model.ErrUnknownReference) {
		t.Fatalf("expected ErrUnknownReference, got %v", err)
	}
}

func TestService_AppointmentsForDoctor(t *testing.T) {
	svc := newTestService()
	got, err := svc.AppointmentsForDoctor(context.Background(), "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].DoctorID != "2" {
		t.Errorf("unexpected result %+v", got)
	}
	none, _ := svc.AppointmentsForDoctor(context.Background(), "99")
	if len(none) != 0 {
		t.Errorf("expected empty result for unknown doctor, got %d", len(none))
	}
}

func TestService_AppointmentsToday(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	got, _ := svc.AppointmentsToday(ctx, day)
	if len(got) != 2 {
		t.Errorf("expected 2 appointments on the seed day, got %d", len(got))
	}
	got, _ = svc.AppointmentsToday(ctx, day.Add(24*time.Hour))
	if len(got) != 0 {
		t.Errorf("expected none the next day, got %d", len(got))
	}
}

func TestService_AppointmentsToday_Location(t *testing.T) {
	coll := memstore.New("appointments", memstore.Sequential, seedAppointments())
	// 14:30 UTC is already the 26th at UTC+11.
	svc := NewService(NewAppointmentRepoMem(coll), time.FixedZone("UTC+11", 11*3600))
	got, _ := svc.AppointmentsToday(context.Background(), time.Date(2024, 1, 26, 2, 0, 0, 0, time.UTC))
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("expected only appointment 2, got %+v", got)
	}
}

func TestService_AppointmentsByStatus(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if _, err := svc.Cancel(ctx, "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all, _ := svc.AppointmentsByStatus(ctx, model.AllFilter)
	if len(all) != 2 {
		t.Errorf("expected 2 with All, got %d", len(all))
	}
	cancelled, _ := svc.AppointmentsByStatus(ctx, "Cancelled")
	if len(cancelled) != 1 || cancelled[0].ID != "1" {
		t.Errorf("unexpected cancelled list %+v", cancelled)
	}
}

func TestService_UpdateAppointmentStatus(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, err := svc.UpdateAppointmentStatus(ctx, "1", StatusInProgress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusInProgress || a.VersionID != 2 {
		t.Errorf("unexpected appointment %+v", a)
	}
	if _, err := svc.UpdateAppointmentStatus(ctx, "1", StatusCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = svc.UpdateAppointmentStatus(ctx, "1", StatusScheduled)
	if !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("expected terminal Completed to reject changes, got %v", err)
	}
}

func TestService_UpdateAppointmentStatus_UnknownStatus(t *testing.T) {
	svc := newTestService()
	_, err := svc.UpdateAppointmentStatus(context.Background(), "1", "Postponed")
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestService_UpdateAppointmentStatus_NotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.UpdateAppointmentStatus(context.Background(), "99", StatusCancelled)
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Cancel_StaleVersion(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if _, err := svc.UpdateAppointmentStatus(ctx, "2", StatusInProgress); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Cancel(model.WithExpectedVersion(ctx, 1), "2")
	if !errors.Is(err, model.ErrVersionConflict) {
		t.Errorf("expected ErrVersionConflict, got %v", err)
	}
}

func TestService_DoctorStats(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	extra := &Appointment{PatientID: "1", DoctorID: "1", DateTime: day.Add(48 * time.Hour)}
	if err := svc.AddAppointment(ctx, extra); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.UpdateAppointmentStatus(ctx, extra.ID, StatusCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st, err := svc.DoctorStats(ctx, "1", day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := DoctorStats{TodayCount: 1, PatientCount: 1, PendingCount: 1}
	if st != want {
		t.Errorf("expected %+v, got %+v", want, st)
	}
}

func TestAppointment_End(t *testing.T) {
	a := &Appointment{DateTime: day, Duration: 45}
	if !a.End().Equal(day.Add(45 * time.Minute)) {
		t.Errorf("unexpected end %v", a.End())
	}
}
