package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/carepoint/hms/internal/domain/billing"
	"github.com/carepoint/hms/internal/domain/clinical"
	"github.com/carepoint/hms/internal/domain/facility"
	"github.com/carepoint/hms/internal/domain/identity"
	"github.com/carepoint/hms/internal/domain/scheduling"
)

// Seed is the data set a Store starts from and returns to on Reset.
type Seed struct {
	Patients       []identity.Patient       `json:"patients"`
	Doctors        []identity.Doctor        `json:"doctors"`
	Appointments   []scheduling.Appointment `json:"appointments"`
	Rooms          []facility.Room          `json:"rooms"`
	MedicalRecords []clinical.MedicalRecord `json:"medical_records"`
	Bills          []billing.Bill           `json:"bills"`
}

// LoadSeed reads a JSON seed file shaped like Seed. Missing collections load
// empty.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	var s Seed
	if err := json.Unmarshal(data, &s); err != nil {
		return Seed{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return s, nil
}

func utc(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string { return &s }

func f64Ptr(v float64) *float64 { return &v }

// DefaultSeed returns the built-in demo data: two patients, two doctors, two
// appointments, two rooms, one medical record and one bill. Each call returns
// a fresh copy.
func DefaultSeed() Seed {
	return Seed{
		Patients: []identity.Patient{
			{
				ID:          "1",
				FirstName:   "John",
				LastName:    "Doe",
				DateOfBirth: "1985-03-15",
				Gender:      "Male",
				PhoneNumber: "+1-555-0123",
				Email:       strPtr("john.doe@email.com"),
				Address:     "123 Main St, Anytown, ST 12345",
				EmergencyContact: identity.EmergencyContact{
					Name:         "Jane Doe",
					Relationship: "Spouse",
					PhoneNumber:  "+1-555-0124",
				},
				BloodGroup: "O+",
				Allergies:  []string{"Penicillin", "Shellfish"},
				InsuranceInfo: &identity.InsuranceInfo{
					Provider:     "HealthCare Plus",
					PolicyNumber: "HC123456789",
				},
				CreatedAt: utc("2024-01-15T10:30:00Z"),
				Status:    identity.PatientActive,
			},
			{
				ID:          "2",
				FirstName:   "Sarah",
				LastName:    "Johnson",
				DateOfBirth: "1992-07-22",
				Gender:      "Female",
				PhoneNumber: "+1-555-0234",
				Email:       strPtr("sarah.johnson@email.com"),
				Address:     "456 Oak Ave, Somewhere, ST 67890",
				EmergencyContact: identity.EmergencyContact{
					Name:         "Michael Johnson",
					Relationship: "Brother",
					PhoneNumber:  "+1-555-0235",
				},
				BloodGroup: "A-",
				Allergies:  []string{"Latex"},
				CreatedAt:  utc("2024-01-20T14:15:00Z"),
				Status:     identity.PatientActive,
			},
		},
		Doctors: []identity.Doctor{
			{
				ID:                "1",
				FirstName:         "Dr. Emily",
				LastName:          "Watson",
				Specialization:    "Cardiology",
				PhoneNumber:       "+1-555-1001",
				Email:             "e.watson@hospital.com",
				LicenseNumber:     "MD123456",
				Department:        "Cardiology",
				YearsOfExperience: 12,
				Availability:      weekdays("09:00", "17:00", "15:00"),
				Status:            identity.DoctorAvailable,
				ConsultationFee:   200,
			},
			{
				ID:                "2",
				FirstName:         "Dr. Michael",
				LastName:          "Chen",
				Specialization:    "Orthopedics",
				PhoneNumber:       "+1-555-1002",
				Email:             "m.chen@hospital.com",
				LicenseNumber:     "MD789012",
				Department:        "Orthopedics",
				YearsOfExperience: 8,
				Availability:      weekdays("08:00", "16:00", "14:00"),
				Status:            identity.DoctorAvailable,
				ConsultationFee:   180,
			},
		},
		Appointments: []scheduling.Appointment{
			{
				ID:        "1",
				PatientID: "1",
				DoctorID:  "1",
				DateTime:  utc("2024-01-25T10:00:00Z"),
				Duration:  30,
				Type:      scheduling.TypeConsultation,
				Status:    scheduling.StatusScheduled,
				Symptoms:  "Chest pain, shortness of breath",
				Priority:  scheduling.PriorityHigh,
			},
			{
				ID:        "2",
				PatientID: "2",
				DoctorID:  "2",
				DateTime:  utc("2024-01-25T14:30:00Z"),
				Duration:  45,
				Type:      scheduling.TypeFollowUp,
				Status:    scheduling.StatusScheduled,
				Symptoms:  "Knee pain follow-up",
				Priority:  scheduling.PriorityMedium,
			},
		},
		Rooms: []facility.Room{
			{
				ID:         "1",
				RoomNumber: "101",
				Type:       "General",
				Status:     facility.RoomAvailable,
				Floor:      1,
				Capacity:   2,
				Equipment:  []string{"Bed", "Monitor", "Oxygen"},
				DailyRate:  150,
			},
			{
				ID:         "2",
				RoomNumber: "201",
				Type:       "ICU",
				Status:     facility.RoomOccupied,
				PatientID:  "1",
				Floor:      2,
				Capacity:   1,
				Equipment:  []string{"Ventilator", "Cardiac Monitor", "Defibrillator"},
				DailyRate:  500,
			},
		},
		MedicalRecords: []clinical.MedicalRecord{
			{
				ID:        "1",
				PatientID: "1",
				DoctorID:  "1",
				Date:      utc("2024-01-20T10:00:00Z"),
				Diagnosis: "Hypertension",
				Symptoms:  "Chest pain, elevated blood pressure",
				Treatment: "Prescribed medication, lifestyle changes",
				Prescriptions: []clinical.Prescription{{
					ID:             "1",
					MedicationName: "Lisinopril",
					Dosage:         "10mg",
					Frequency:      "Once daily",
					Duration:       "30 days",
					Instructions:   "Take with food",
					PrescribedDate: "2024-01-20",
				}},
				Notes:        "Patient advised to monitor blood pressure daily",
				FollowUpDate: "2024-02-20",
			},
		},
		Bills: []billing.Bill{
			{
				ID:        "1",
				PatientID: "1",
				Items: []billing.BillItem{
					{ID: "1", Description: "Cardiology Consultation", Quantity: 1, UnitPrice: 200, TotalPrice: 200, Category: "Consultation"},
					{ID: "2", Description: "ECG Test", Quantity: 1, UnitPrice: 75, TotalPrice: 75, Category: "Test"},
				},
				TotalAmount:      275,
				PaidAmount:       0,
				Status:           billing.StatusPending,
				DueDate:          "2024-02-15",
				CreatedDate:      "2024-01-20",
				InsuranceCovered: f64Ptr(220),
			},
		},
	}
}

// weekdays builds a Monday to Friday schedule with a shorter Friday.
func weekdays(start, end, fridayEnd string) identity.Availability {
	day := func(e string) []identity.TimeSlot { return []identity.TimeSlot{{Start: start, End: e}} }
	return identity.Availability{
		"Monday":    day(end),
		"Tuesday":   day(end),
		"Wednesday": day(end),
		"Thursday":  day(end),
		"Friday":    day(fridayEnd),
	}
}
