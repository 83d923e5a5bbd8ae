// Package export renders a store snapshot as an Excel workbook for the
// front office.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/carepoint/hms/internal/domain/identity"
	"github.com/carepoint/hms/internal/store"
)

const (
	SheetPatients     = "Patients"
	SheetAppointments = "Appointments"
	SheetBills        = "Bills"
)

// ContentType is the media type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	patientHeader = []string{
		"ID", "Patient Number", "First Name", "Last Name", "Date of Birth",
		"Gender", "Phone", "Email", "Status", "Admitted",
	}
	appointmentHeader = []string{
		"ID", "Patient", "Doctor", "Date/Time", "Duration (min)",
		"Type", "Status", "Priority",
	}
	billHeader = []string{
		"ID", "Patient", "Total", "Paid", "Insurance",
		"Amount Due", "Status", "Due Date",
	}
)

type sheet struct {
	name   string
	header []string
	widths []float64
	rows   [][]any
}

// Workbook builds the three-sheet workbook for snap. The caller owns the
// returned file and must Close it.
func Workbook(snap store.Seed) (*excelize.File, error) {
	patients := make(map[string]string, len(snap.Patients))
	for i := range snap.Patients {
		p := &snap.Patients[i]
		patients[p.ID] = p.FullName()
	}
	doctors := make(map[string]string, len(snap.Doctors))
	for i := range snap.Doctors {
		d := &snap.Doctors[i]
		doctors[d.ID] = d.FullName()
	}

	sheets := []sheet{
		{name: SheetPatients, header: patientHeader, widths: []float64{8, 16, 16, 16, 14, 10, 16, 28, 12, 22}},
		{name: SheetAppointments, header: appointmentHeader, widths: []float64{8, 22, 22, 22, 14, 14, 12, 10}},
		{name: SheetBills, header: billHeader, widths: []float64{8, 22, 12, 12, 12, 12, 16, 14}},
	}
	for i := range snap.Patients {
		p := &snap.Patients[i]
		sheets[0].rows = append(sheets[0].rows, []any{
			p.ID, p.PatientNumber, p.FirstName, p.LastName, p.DateOfBirth,
			p.Gender, p.PhoneNumber, deref(p.Email), string(p.Status), admitted(p),
		})
	}
	for _, a := range snap.Appointments {
		sheets[1].rows = append(sheets[1].rows, []any{
			a.ID, patients[a.PatientID], doctors[a.DoctorID], a.DateTime.Format("2006-01-02 15:04"),
			a.Duration, a.Type, string(a.Status), a.Priority,
		})
	}
	for i := range snap.Bills {
		b := &snap.Bills[i]
		sheets[2].rows = append(sheets[2].rows, []any{
			b.ID, patients[b.PatientID], b.TotalAmount, b.PaidAmount, b.Insurance(),
			b.AmountDue(), string(b.Status), b.DueDate,
		})
	}

	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	for _, s := range sheets {
		if err := writeSheet(f, s, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(SheetPatients); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	if _, err := f.NewSheet(s.name); err != nil {
		return fmt.Errorf("create sheet %s: %w", s.name, err)
	}
	if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
		return fmt.Errorf("write %s header: %w", s.name, err)
	}
	last, err := excelize.CoordinatesToCellName(len(s.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", s.name, err)
	}
	for i, w := range s.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.name, col, col, w); err != nil {
			return fmt.Errorf("set %s column width: %w", s.name, err)
		}
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", s.name, i+2, err)
		}
	}
	return f.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// Write renders snap and streams the workbook to w.
func Write(w io.Writer, snap store.Seed) error {
	f, err := Workbook(snap)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Bytes renders snap into memory.
func Bytes(snap store.Seed) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func admitted(p *identity.Patient) string {
	if !p.Admitted() {
		return ""
	}
	return p.CreatedAt.Format("2006-01-02 15:04")
}
