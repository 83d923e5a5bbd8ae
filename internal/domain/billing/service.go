package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carepoint/hms/internal/domain/model"
)

// DefaultPaymentTerm is how long after creation a bill falls due when no due
// date is given.
const DefaultPaymentTerm = 30 * 24 * time.Hour

type Service struct {
	bills BillRepository
	loc   *time.Location
	refs  model.ReferenceChecker
	now   func() time.Time
}

func NewService(bills BillRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{bills: bills, loc: loc, now: time.Now}
}

func (s *Service) SetReferenceChecker(rc model.ReferenceChecker) {
	s.refs = rc
}

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// AddBill prices every line (quantity x unit price), totals the bill and
// stores it as Pending.
func (s *Service) AddBill(ctx context.Context, b *Bill) error {
	if err := model.Required("patient_id", b.PatientID); err != nil {
		return err
	}
	if len(b.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", model.ErrValidation)
	}
	if err := model.VerifyReferences(s.refs, b.PatientID, ""); err != nil {
		return err
	}

	var total float64
	for i := range b.Items {
		it := &b.Items[i]
		if err := model.Required("description", it.Description); err != nil {
			return err
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item %q quantity must be positive", model.ErrValidation, it.Description)
		}
		if it.UnitPrice < 0 {
			return fmt.Errorf("%w: item %q unit_price must not be negative", model.ErrValidation, it.Description)
		}
		if it.Category == "" {
			it.Category = "Other"
		}
		if !validCategories[it.Category] {
			return fmt.Errorf("%w: invalid item category: %s", model.ErrValidation, it.Category)
		}
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.TotalPrice = roundCents(float64(it.Quantity) * it.UnitPrice)
		total += it.TotalPrice
	}
	b.TotalAmount = roundCents(total)

	if b.PaidAmount < 0 || b.PaidAmount > b.TotalAmount {
		return fmt.Errorf("%w: paid_amount must be between 0 and the bill total", model.ErrValidation)
	}
	if ins := b.Insurance(); ins < 0 || ins+b.PaidAmount > b.TotalAmount {
		return fmt.Errorf("%w: insurance_covered plus paid_amount exceeds the bill total", model.ErrValidation)
	}

	today := s.now().In(s.loc)
	if b.CreatedDate == "" {
		b.CreatedDate = today.Format(model.DateLayout)
	}
	created, err := model.ParseDate(b.CreatedDate)
	if err != nil {
		return fmt.Errorf("%w: created_date must be YYYY-MM-DD", model.ErrValidation)
	}
	if b.DueDate == "" {
		b.DueDate = created.Add(DefaultPaymentTerm).Format(model.DateLayout)
	}
	if _, err := model.ParseDate(b.DueDate); err != nil {
		return fmt.Errorf("%w: due_date must be YYYY-MM-DD", model.ErrValidation)
	}

	if b.Status == "" {
		b.Status = StatusPending
	}
	if b.AmountDue() <= 0 && (b.Status == StatusPending || b.Status == StatusPartiallyPaid) {
		b.Status = StatusPaid
	}
	if !BillTransitions.Valid(b.Status) {
		return fmt.Errorf("%w: invalid bill status: %s", model.ErrValidation, b.Status)
	}
	b.ID = ""
	return s.bills.Create(ctx, b)
}

func (s *Service) GetBill(ctx context.Context, id string) (*Bill, error) {
	return s.bills.GetByID(ctx, id)
}

func (s *Service) ListBills(ctx context.Context) ([]*Bill, error) {
	return s.bills.List(ctx)
}

func (s *Service) BillsForPatient(ctx context.Context, patientID string) ([]*Bill, error) {
	return s.bills.Filter(ctx, func(b *Bill) bool { return b.PatientID == patientID })
}

// BillsByStatus filters on status; model.AllFilter or "" returns every bill.
func (s *Service) BillsByStatus(ctx context.Context, status string) ([]*Bill, error) {
	if status == "" || status == model.AllFilter {
		return s.bills.List(ctx)
	}
	return s.bills.Filter(ctx, func(b *Bill) bool { return string(b.Status) == status })
}

// RecordPayment adds amount to the paid total. The bill becomes Paid once
// nothing is due and Partially Paid otherwise.
func (s *Service) RecordPayment(ctx context.Context, id string, amount float64, method string) (*Bill, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", model.ErrValidation)
	}
	b, err := s.bills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := model.CheckVersion(ctx, "bill", id, b.VersionID); err != nil {
		return nil, err
	}
	due := b.AmountDue()
	if roundCents(amount) > due {
		return nil, fmt.Errorf("%w: payment %.2f exceeds amount due %.2f", model.ErrValidation, amount, due)
	}

	next := StatusPartiallyPaid
	if roundCents(due-amount) == 0 {
		next = StatusPaid
	}
	if err := BillTransitions.Validate("bill", b.Status, next); err != nil {
		return nil, err
	}
	b.PaidAmount = roundCents(b.PaidAmount + amount)
	b.Status = next
	if m := strings.TrimSpace(method); m != "" {
		b.PaymentMethod = m
	}
	if err := s.bills.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// MarkOverdue moves Pending and Partially Paid bills that still have an
// amount due and whose due date is before now's calendar day to Overdue, returning how many changed. Bills
// modified concurrently are left for the next sweep.
func (s *Service) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	today := now.In(s.loc).Format(model.DateLayout)
	late, err := s.bills.Filter(ctx, func(b *Bill) bool {
		return (b.Status == StatusPending || b.Status == StatusPartiallyPaid) &&
			b.AmountDue() > 0 && b.DueDate != "" && b.DueDate < today
	})
	if err != nil {
		return 0, err
	}
	n := 0
	for _, b := range late {
		b.Status = StatusOverdue
		if err := s.bills.Update(ctx, b); err != nil {
			if errors.Is(err, model.ErrVersionConflict) || errors.Is(err, model.ErrNotFound) {
				continue
			}
			return n, err
		}
		n++
	}
	return n, nil
}

// Stats sums revenue over Paid bills and the unpaid balance over the rest.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	bills, err := s.bills.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	var st Stats
	for _, b := range bills {
		st.Count++
		switch b.Status {
		case StatusPaid:
			st.Revenue += b.TotalAmount
		case StatusPending:
			st.PendingCount++
			st.Outstanding += b.Outstanding()
		case StatusOverdue:
			st.OverdueCount++
			st.Outstanding += b.Outstanding()
		default:
			st.Outstanding += b.Outstanding()
		}
	}
	st.Revenue = roundCents(st.Revenue)
	st.Outstanding = roundCents(st.Outstanding)
	return st, nil
}
