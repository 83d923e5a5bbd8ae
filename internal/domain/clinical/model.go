package clinical

import (
	"slices"
	"time"
)

var validLabStatuses = map[string]bool{
	"Normal":   true,
	"Abnormal": true,
	"Critical": true,
}

type Prescription struct {
	ID             string `json:"id"`
	MedicationName string `json:"medication_name"`
	Dosage         string `json:"dosage"`
	Frequency      string `json:"frequency"`
	Duration       string `json:"duration"`
	Instructions   string `json:"instructions"`
	PrescribedDate string `json:"prescribed_date"`
}

type LabResult struct {
	ID          string `json:"id"`
	TestName    string `json:"test_name"`
	Result      string `json:"result"`
	NormalRange string `json:"normal_range"`
	Status      string `json:"status"`
	TestDate    string `json:"test_date"`
	Comments    string `json:"comments,omitempty"`
}

type MedicalRecord struct {
	ID            string         `json:"id"`
	PatientID     string         `json:"patient_id"`
	DoctorID      string         `json:"doctor_id"`
	Date          time.Time      `json:"date"`
	Diagnosis     string         `json:"diagnosis"`
	Symptoms      string         `json:"symptoms"`
	Treatment     string         `json:"treatment"`
	Prescriptions []Prescription `json:"prescriptions"`
	LabResults    []LabResult    `json:"lab_results,omitempty"`
	FollowUpDate  string         `json:"follow_up_date,omitempty"`
	Notes         string         `json:"notes"`
	VersionID     int            `json:"version_id"`
}

func (r MedicalRecord) Key() string  { return r.ID }
func (r MedicalRecord) Version() int { return r.VersionID }

func (r MedicalRecord) Clone() MedicalRecord {
	r.Prescriptions = slices.Clone(r.Prescriptions)
	r.LabResults = slices.Clone(r.LabResults)
	return r
}

func (r MedicalRecord) WithMeta(id string, version int) MedicalRecord {
	r.ID = id
	r.VersionID = version
	return r
}
