package billing

import (
	"math"
	"slices"

	"github.com/carepoint/hms/internal/domain/model"
)

type BillStatus string

const (
	StatusPending       BillStatus = "Pending"
	StatusPartiallyPaid BillStatus = "Partially Paid"
	StatusPaid          BillStatus = "Paid"
	StatusOverdue       BillStatus = "Overdue"
)

// BillTransitions: Paid is terminal.
var BillTransitions = model.Transitions[BillStatus]{
	StatusPending:       {StatusPartiallyPaid, StatusPaid, StatusOverdue},
	StatusPartiallyPaid: {StatusPaid, StatusOverdue},
	StatusOverdue:       {StatusPartiallyPaid, StatusPaid},
	StatusPaid:          {},
}

var validCategories = map[string]bool{
	"Consultation": true,
	"Procedure":    true,
	"Medication":   true,
	"Room":         true,
	"Test":         true,
	"Other":        true,
}

type BillItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
	Category    string  `json:"category"`
}

type Bill struct {
	ID               string     `json:"id"`
	PatientID        string     `json:"patient_id"`
	Items            []BillItem `json:"items"`
	TotalAmount      float64    `json:"total_amount"`
	PaidAmount       float64    `json:"paid_amount"`
	InsuranceCovered *float64   `json:"insurance_covered,omitempty"`
	PaymentMethod    string     `json:"payment_method,omitempty"`
	Status           BillStatus `json:"status"`
	DueDate          string     `json:"due_date"`
	CreatedDate      string     `json:"created_date"`
	VersionID        int        `json:"version_id"`
}

func (b Bill) Key() string  { return b.ID }
func (b Bill) Version() int { return b.VersionID }

func (b Bill) Clone() Bill {
	b.Items = slices.Clone(b.Items)
	if b.InsuranceCovered != nil {
		v := *b.InsuranceCovered
		b.InsuranceCovered = &v
	}
	return b
}

func (b Bill) WithMeta(id string, version int) Bill {
	b.ID = id
	b.VersionID = version
	return b
}

// Insurance returns the insured amount, 0 when none was recorded.
func (b *Bill) Insurance() float64 {
	if b.InsuranceCovered == nil {
		return 0
	}
	return *b.InsuranceCovered
}

// AmountDue is what the patient still owes: total minus paid minus insurance.
func (b *Bill) AmountDue() float64 {
	return roundCents(b.TotalAmount - b.PaidAmount - b.Insurance())
}

// Outstanding is the unpaid part of the bill before insurance.
func (b *Bill) Outstanding() float64 {
	return roundCents(b.TotalAmount - b.PaidAmount)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Stats summarizes the billing ledger.
type Stats struct {
	Revenue      float64 `json:"revenue"`
	Outstanding  float64 `json:"outstanding"`
	Count        int     `json:"count"`
	PendingCount int     `json:"pending_count"`
	OverdueCount int     `json:"overdue_count"`
}
