package dashboard

import (
	"github.com/carepoint/hms/internal/domain/billing"
	"github.com/carepoint/hms/internal/domain/clinical"
	"github.com/carepoint/hms/internal/domain/facility"
	"github.com/carepoint/hms/internal/domain/identity"
	"github.com/carepoint/hms/internal/domain/scheduling"
)

// RecentLimit is how many appointments the summary lists.
const RecentLimit = 5

// CompletedLimit is how many past visits the patient portal shows.
const CompletedLimit = 3

// AppointmentDetail is an appointment joined to display names. Names are
// blank when the reference does not resolve.
type AppointmentDetail struct {
	scheduling.Appointment
	PatientName string `json:"patient_name"`
	DoctorName  string `json:"doctor_name"`
}

type AppointmentFilter struct {
	Term   string
	Status string
}

type Summary struct {
	TotalPatients      int                         `json:"total_patients"`
	TotalDoctors       int                         `json:"total_doctors"`
	TodayAppointments  int                         `json:"today_appointments"`
	AvailableRooms     int                         `json:"available_rooms"`
	PendingBills       int                         `json:"pending_bills"`
	TodayRecords       int                         `json:"today_records"`
	RoomsByStatus      map[facility.RoomStatus]int `json:"rooms_by_status"`
	RecentAppointments []AppointmentDetail         `json:"recent_appointments"`
}

// RoomOccupancy is a room with its occupant resolved, when there is one.
type RoomOccupancy struct {
	facility.Room
	PatientName string `json:"patient_name,omitempty"`
}

type DoctorDashboard struct {
	Doctor            identity.Doctor          `json:"doctor"`
	Stats             scheduling.DoctorStats   `json:"stats"`
	Appointments      []AppointmentDetail      `json:"appointments"`
	TodayAppointments []AppointmentDetail      `json:"today_appointments"`
	Patients          []identity.Patient       `json:"patients"`
	OccupiedRooms     []RoomOccupancy          `json:"occupied_rooms"`
	AvailableRooms    []facility.Room          `json:"available_rooms"`
	Records           []clinical.MedicalRecord `json:"records"`
}

// RecordDetail is a medical record with the treating doctor's name.
type RecordDetail struct {
	clinical.MedicalRecord
	DoctorName string `json:"doctor_name"`
}

// BillDetail is a bill with what the patient still owes.
type BillDetail struct {
	billing.Bill
	AmountDue float64 `json:"amount_due"`
}

type PatientPortal struct {
	Patient               identity.Patient    `json:"patient"`
	Age                   int                 `json:"age"`
	UpcomingAppointments  []AppointmentDetail `json:"upcoming_appointments"`
	CompletedAppointments []AppointmentDetail `json:"completed_appointments"`
	Records               []RecordDetail      `json:"records"`
	Bills                 []BillDetail        `json:"bills"`
	TotalDue              float64             `json:"total_due"`
}
