package clinical

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/carepoint/hms/internal/domain/identity"
	"github.com/carepoint/hms/internal/domain/model"
)

// AdmissionEntry is one admitted patient with all of their records.
type AdmissionEntry struct {
	PatientID     string           `json:"patient_id"`
	Patient       identity.Patient `json:"patient"`
	Records       []MedicalRecord  `json:"records"`
	AdmissionDate time.Time        `json:"admission_date"`
}

type DayGroup struct {
	Day     string           `json:"day"`
	Entries []AdmissionEntry `json:"entries"`
}

type MonthGroup struct {
	Month time.Month `json:"-"`
	Name  string     `json:"month"`
	Days  []DayGroup `json:"days"`
}

type YearGroup struct {
	Year   int          `json:"year"`
	Months []MonthGroup `json:"months"`
}

// PatientCount is the number of admitted patients in the year.
func (y YearGroup) PatientCount() int {
	n := 0
	for _, m := range y.Months {
		for _, d := range m.Days {
			n += len(d.Entries)
		}
	}
	return n
}

// RecordCount is the number of records held by the year's patients.
func (y YearGroup) RecordCount() int {
	n := 0
	for _, m := range y.Months {
		for _, d := range m.Days {
			for _, e := range d.Entries {
				n += len(e.Records)
			}
		}
	}
	return n
}

// GroupByAdmissionDate buckets every patient with an admission timestamp by
// the year, month and day of that timestamp in loc. Years run newest first;
// months and days run in calendar order; patients within a day keep source
// order. Patients never admitted are left out.
func GroupByAdmissionDate(patients []*identity.Patient, records []*MedicalRecord, loc *time.Location) []YearGroup {
	if loc == nil {
		loc = time.Local
	}
	byPatient := make(map[string][]MedicalRecord)
	for _, r := range records {
		byPatient[r.PatientID] = append(byPatient[r.PatientID], r.Clone())
	}

	type dayKey struct {
		year  int
		month time.Month
		day   int
	}
	buckets := make(map[dayKey][]AdmissionEntry)
	for _, p := range patients {
		if !p.Admitted() {
			continue
		}
		at := p.CreatedAt.In(loc)
		k := dayKey{at.Year(), at.Month(), at.Day()}
		recs := byPatient[p.ID]
		if recs == nil {
			recs = []MedicalRecord{}
		}
		buckets[k] = append(buckets[k], AdmissionEntry{
			PatientID:     p.ID,
			Patient:       p.Clone(),
			Records:       recs,
			AdmissionDate: p.CreatedAt,
		})
	}

	keys := make([]dayKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.year != b.year {
			return a.year > b.year
		}
		if a.month != b.month {
			return a.month < b.month
		}
		return a.day < b.day
	})

	var years []YearGroup
	for _, k := range keys {
		if len(years) == 0 || years[len(years)-1].Year != k.year {
			years = append(years, YearGroup{Year: k.year})
		}
		y := &years[len(years)-1]
		if len(y.Months) == 0 || y.Months[len(y.Months)-1].Month != k.month {
			y.Months = append(y.Months, MonthGroup{Month: k.month, Name: k.month.String()})
		}
		m := &y.Months[len(y.Months)-1]
		m.Days = append(m.Days, DayGroup{
			Day:     twoDigit(k.day),
			Entries: buckets[k],
		})
	}
	return years
}

func twoDigit(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// FilterGroups narrows grouped output to year (model.AllFilter or "" keeps
// every year) and to entries whose patient name or patient number contains
// term. Empty days, months and years are dropped.
func FilterGroups(groups []YearGroup, term, year string) []YearGroup {
	term = strings.TrimSpace(term)
	var out []YearGroup
	for _, y := range groups {
		if year != "" && year != model.AllFilter && strconv.Itoa(y.Year) != year {
			continue
		}
		ny := YearGroup{Year: y.Year}
		for _, m := range y.Months {
			nm := MonthGroup{Month: m.Month, Name: m.Name}
			for _, d := range m.Days {
				nd := DayGroup{Day: d.Day}
				for _, e := range d.Entries {
					if matchesEntry(e, term) {
						nd.Entries = append(nd.Entries, e)
					}
				}
				if len(nd.Entries) > 0 {
					nm.Days = append(nm.Days, nd)
				}
			}
			if len(nm.Days) > 0 {
				ny.Months = append(ny.Months, nm)
			}
		}
		if len(ny.Months) > 0 {
			out = append(out, ny)
		}
	}
	return out
}

func matchesEntry(e AdmissionEntry, term string) bool {
	return model.ContainsFold(e.Patient.FullName(), term) ||
		model.ContainsFold(e.Patient.PatientNumber, term)
}

// Years lists the years present in groups, newest first.
func Years(groups []YearGroup) []int {
	out := make([]int, len(groups))
	for i, y := range groups {
		out[i] = y.Year
	}
	return out
}
