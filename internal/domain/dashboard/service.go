// Package dashboard joins the entity collections into the read models the
// front desk, doctors and patients look at. Everything here is recomputed on
// every call.
package dashboard

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/carepoint/hms/internal/domain/billing"
	"github.com/carepoint/hms/internal/domain/clinical"
	"github.com/carepoint/hms/internal/domain/facility"
	"github.com/carepoint/hms/internal/domain/identity"
	"github.com/carepoint/hms/internal/domain/model"
	"github.com/carepoint/hms/internal/domain/scheduling"
)

type Service struct {
	identity   *identity.Service
	scheduling *scheduling.Service
	facility   *facility.Service
	clinical   *clinical.Service
	billing    *billing.Service
}

func NewService(id *identity.Service, sched *scheduling.Service, fac *facility.Service, clin *clinical.Service, bill *billing.Service) *Service {
	return &Service{identity: id, scheduling: sched, facility: fac, clinical: clin, billing: bill}
}

func (s *Service) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	patients, err := s.identity.ListPatients(ctx)
	if err != nil {
		return nil, err
	}
	doctors, err := s.identity.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}
	today, err := s.scheduling.AppointmentsToday(ctx, now)
	if err != nil {
		return nil, err
	}
	rooms, err := s.facility.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.billing.BillsByStatus(ctx, string(billing.StatusPending))
	if err != nil {
		return nil, err
	}
	records, err := s.clinical.RecordsOn(ctx, now)
	if err != nil {
		return nil, err
	}
	appts, err := s.scheduling.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}
	if len(appts) > RecentLimit {
		appts = appts[:RecentLimit]
	}

	return &Summary{
		TotalPatients:      len(patients),
		TotalDoctors:       len(doctors),
		TodayAppointments:  len(today),
		AvailableRooms:     rooms[facility.RoomAvailable],
		PendingBills:       len(pending),
		TodayRecords:       len(records),
		RoomsByStatus:      rooms,
		RecentAppointments: s.details(ctx, appts),
	}, nil
}

// AppointmentDetails lists appointments joined to patient and doctor names,
// narrowed by f. A search term matches either name; appointments whose
// patient is gone never match a term.
func (s *Service) AppointmentDetails(ctx context.Context, f AppointmentFilter) ([]AppointmentDetail, error) {
	appts, err := s.scheduling.AppointmentsByStatus(ctx, f.Status)
	if err != nil {
		return nil, err
	}
	term := strings.TrimSpace(f.Term)
	out := make([]AppointmentDetail, 0, len(appts))
	for _, a := range appts {
		d := s.detail(ctx, a)
		if term != "" {
			if d.PatientName == "" {
				continue
			}
			if !model.ContainsFold(d.PatientName, term) && !model.ContainsFold(d.DoctorName, term) {
				continue
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *Service) detail(ctx context.Context, a *scheduling.Appointment) AppointmentDetail {
	d := AppointmentDetail{Appointment: *a}
	if p, ok := s.identity.FindPatient(ctx, a.PatientID); ok {
		d.PatientName = p.FullName()
	}
	if doc, ok := s.identity.FindDoctor(ctx, a.DoctorID); ok {
		d.DoctorName = doc.FullName()
	}
	return d
}

func (s *Service) details(ctx context.Context, appts []*scheduling.Appointment) []AppointmentDetail {
	out := make([]AppointmentDetail, len(appts))
	for i, a := range appts {
		out[i] = s.detail(ctx, a)
	}
	return out
}

// DoctorDashboard gathers one doctor's working view. The room lists cover
// the whole hospital, as on the ward screen.
func (s *Service) DoctorDashboard(ctx context.Context, doctorID string, now time.Time) (*DoctorDashboard, error) {
	doc, err := s.identity.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	appts, err := s.scheduling.AppointmentsForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	stats, err := s.scheduling.DoctorStats(ctx, doctorID, now)
	if err != nil {
		return nil, err
	}
	occupied, err := s.facility.RoomsByStatus(ctx, string(facility.RoomOccupied))
	if err != nil {
		return nil, err
	}
	available, err := s.facility.RoomsByStatus(ctx, string(facility.RoomAvailable))
	if err != nil {
		return nil, err
	}
	records, err := s.clinical.RecordsForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	dash := &DoctorDashboard{
		Doctor:            *doc,
		Stats:             stats,
		Appointments:      s.details(ctx, appts),
		TodayAppointments: []AppointmentDetail{},
		Patients:          []identity.Patient{},
		OccupiedRooms:     make([]RoomOccupancy, 0, len(occupied)),
		AvailableRooms:    make([]facility.Room, 0, len(available)),
		Records:           make([]clinical.MedicalRecord, 0, len(records)),
	}
	seen := make(map[string]bool)
	for i, a := range appts {
		if s.scheduling.IsToday(a, now) {
			dash.TodayAppointments = append(dash.TodayAppointments, dash.Appointments[i])
		}
		if seen[a.PatientID] {
			continue
		}
		seen[a.PatientID] = true
		if p, ok := s.identity.FindPatient(ctx, a.PatientID); ok {
			dash.Patients = append(dash.Patients, *p)
		}
	}
	for _, r := range occupied {
		occ := RoomOccupancy{Room: *r}
		if p, ok := s.identity.FindPatient(ctx, r.PatientID); ok {
			occ.PatientName = p.FullName()
		}
		dash.OccupiedRooms = append(dash.OccupiedRooms, occ)
	}
	for _, r := range available {
		dash.AvailableRooms = append(dash.AvailableRooms, *r)
	}
	for _, r := range records {
		dash.Records = append(dash.Records, *r)
	}
	return dash, nil
}

// PatientPortal gathers what a patient sees about themselves: upcoming
// scheduled visits, the last few completed ones, records and bills.
func (s *Service) PatientPortal(ctx context.Context, patientID string, now time.Time) (*PatientPortal, error) {
	p, err := s.identity.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	appts, err := s.scheduling.AppointmentsForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	records, err := s.clinical.RecordsForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	bills, err := s.billing.BillsForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	portal := &PatientPortal{
		Patient:               *p,
		Age:                   p.Age(now),
		UpcomingAppointments:  []AppointmentDetail{},
		CompletedAppointments: []AppointmentDetail{},
		Records:               make([]RecordDetail, 0, len(records)),
		Bills:                 make([]BillDetail, 0, len(bills)),
	}
	for _, a := range appts {
		switch {
		case a.Status == scheduling.StatusScheduled && a.DateTime.After(now):
			portal.UpcomingAppointments = append(portal.UpcomingAppointments, s.detail(ctx, a))
		case a.Status == scheduling.StatusCompleted && len(portal.CompletedAppointments) < CompletedLimit:
			portal.CompletedAppointments = append(portal.CompletedAppointments, s.detail(ctx, a))
		}
	}
	for _, r := range records {
		rd := RecordDetail{MedicalRecord: *r}
		if doc, ok := s.identity.FindDoctor(ctx, r.DoctorID); ok {
			rd.DoctorName = doc.FullName()
		}
		portal.Records = append(portal.Records, rd)
	}
	var due float64
	for _, b := range bills {
		bd := BillDetail{Bill: *b, AmountDue: b.AmountDue()}
		due += bd.AmountDue
		portal.Bills = append(portal.Bills, bd)
	}
	portal.TotalDue = math.Round(due*100) / 100
	return portal, nil
}
