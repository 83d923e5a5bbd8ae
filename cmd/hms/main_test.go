package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carepoint/hms/internal/config"
	"github.com/carepoint/hms/internal/domain/clinical"
	"github.com/carepoint/hms/internal/domain/identity"
	"github.com/carepoint/hms/internal/platform/export"
	"github.com/carepoint/hms/internal/store"
)

func testConfig(strict bool) *config.Config {
	return &config.Config{
		Port:             "0",
		Env:              "test",
		LogLevel:         "info",
		CORSOrigins:      []string{"http://localhost:3000"},
		IDStrategy:       "sequence",
		StrictReferences: strict,
		Timezone:         "UTC",
	}
}

func newTestServer(t *testing.T, strict bool) (*app, *echo.Echo) {
	t.Helper()
	cfg := testConfig(strict)
	a, err := newApp(store.New(store.DefaultSeed(), nil), cfg)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	return a, a.router(cfg, zerolog.Nop())
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type page struct {
	Data  []map[string]any `json:"data"`
	Total int              `json:"total"`
}

func decodePage(t *testing.T, rec *httptest.ResponseRecorder) page {
	t.Helper()
	var p page
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode page: %v (%s)", err, rec.Body.String())
	}
	return p
}

func TestHealth(t *testing.T) {
	_, e := newTestServer(t, false)
	rec := do(e, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"patients":2`) {
		t.Errorf("expected seed counts in health body, got %s", rec.Body.String())
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Error("expected a request id on the response")
	}
}

func TestAddAppointment_EndToEnd(t *testing.T) {
	_, e := newTestServer(t, false)
	tomorrow := time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339)

	rec := do(e, http.MethodPost, "/api/v1/appointments",
		`{"patient_id":"1","doctor_id":"2","date_time":"`+tomorrow+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created["id"] != "3" {
		t.Errorf("expected id 3, got %v", created["id"])
	}
	if created["status"] != "Scheduled" {
		t.Errorf("expected default status Scheduled, got %v", created["status"])
	}

	p := decodePage(t, do(e, http.MethodGet, "/api/v1/patients/1/appointments", ""))
	if p.Total != 2 {
		t.Fatalf("expected patient 1 to have 2 appointments, got %d", p.Total)
	}
	found := false
	for _, a := range p.Data {
		if a["id"] == "3" {
			found = true
		}
	}
	if !found {
		t.Error("expected appointment 3 among patient 1's appointments")
	}
}

func TestRemoveDoctor_EndToEnd(t *testing.T) {
	a, e := newTestServer(t, false)

	rec := do(e, http.MethodDelete, "/api/v1/doctors/2", "")
	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412 without confirmation, got %d", rec.Code)
	}

	rec = do(e, http.MethodDelete, "/api/v1/doctors/2?confirm=true", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if n := a.store.Doctors.Len(); n != 1 {
		t.Errorf("expected 1 doctor left, got %d", n)
	}
	if rec := do(e, http.MethodGet, "/api/v1/doctors/2", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for removed doctor, got %d", rec.Code)
	}

	// Appointment 2 still references doctor 2 and now joins to a blank name.
	p := decodePage(t, do(e, http.MethodGet, "/api/v1/appointments?status=All", ""))
	for _, d := range p.Data {
		if d["id"] == "2" && d["doctor_name"] != "" {
			t.Errorf("expected blank doctor name, got %v", d["doctor_name"])
		}
	}
}

func TestActivityFeed_RecordsWrites(t *testing.T) {
	_, e := newTestServer(t, false)
	do(e, http.MethodPatch, "/api/v1/rooms/1/status", `{"status":"Maintenance"}`)
	do(e, http.MethodDelete, "/api/v1/doctors/1", "")

	rec := do(e, http.MethodGet, "/api/v1/activity", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// The unconfirmed delete failed with 412 and is not in the feed.
	if len(body.Data) != 1 {
		t.Fatalf("expected 1 change, got %d: %s", len(body.Data), rec.Body.String())
	}
	if body.Data[0]["entity"] != "rooms" || body.Data[0]["record_id"] != "1" {
		t.Errorf("unexpected entry: %v", body.Data[0])
	}
}

func TestStaleVersion_Conflict(t *testing.T) {
	_, e := newTestServer(t, false)
	rec := do(e, http.MethodPatch, "/api/v1/appointments/1/status",
		`{"status":"Completed","version_id":7}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDisallowedTransition(t *testing.T) {
	_, e := newTestServer(t, false)
	if rec := do(e, http.MethodPost, "/api/v1/appointments/1/cancel", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected cancel to succeed, got %d", rec.Code)
	}
	rec := do(e, http.MethodPatch, "/api/v1/appointments/1/status", `{"status":"Completed"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 leaving a terminal status, got %d", rec.Code)
	}
}

func TestStrictReferences(t *testing.T) {
	tomorrow := time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339)
	body := `{"patient_id":"99","doctor_id":"1","date_time":"` + tomorrow + `"}`

	_, lax := newTestServer(t, false)
	if rec := do(lax, http.MethodPost, "/api/v1/appointments", body); rec.Code != http.StatusCreated {
		t.Errorf("expected dangling reference to be accepted by default, got %d", rec.Code)
	}

	_, strict := newTestServer(t, true)
	if rec := do(strict, http.MethodPost, "/api/v1/appointments", body); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 with strict references, got %d", rec.Code)
	}
}

func TestBillAmountDue_Portal(t *testing.T) {
	_, e := newTestServer(t, false)
	rec := do(e, http.MethodGet, "/api/v1/patients/1/portal", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"total_due":55`) {
		t.Errorf("expected total due 55, got %s", rec.Body.String())
	}
}

func TestExportEndpoint(t *testing.T) {
	_, e := newTestServer(t, false)
	rec := do(e, http.MethodGet, "/api/v1/export.xlsx", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != export.ContentType {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.Contains(rec.Header().Get(echo.HeaderContentDisposition), ".xlsx") {
		t.Error("expected attachment filename")
	}
	if rec.Body.Len() == 0 {
		t.Error("expected a workbook body")
	}
}

func TestUnknownRoute(t *testing.T) {
	_, e := newTestServer(t, false)
	if rec := do(e, http.MethodGet, "/api/v1/wards", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestLoadStore_SeedFileAndStrategy(t *testing.T) {
	cfg := testConfig(false)
	cfg.SeedFile = filepath.Join(t.TempDir(), "missing.json")
	if _, err := loadStore(cfg); err == nil {
		t.Error("expected error for missing seed file")
	}

	cfg.SeedFile = ""
	cfg.IDStrategy = "snowflake"
	if _, err := loadStore(cfg); err == nil {
		t.Error("expected error for unknown id strategy")
	}

	cfg.IDStrategy = "uuid"
	st, err := loadStore(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := st.Patients.Insert(identity.Patient{FirstName: "Ann", LastName: "Lee"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(p.ID) != 36 {
		t.Errorf("expected uuid id, got %q", p.ID)
	}
}

func TestPrintDashboard(t *testing.T) {
	a, _ := newTestServer(t, false)
	var buf bytes.Buffer
	now := time.Date(2024, 1, 25, 8, 0, 0, 0, time.UTC)

	if err := printDashboard(context.Background(), &buf, a, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Patients", "Today's appointments  2", "Recent appointments", "John Doe"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestPrintGroups(t *testing.T) {
	a, _ := newTestServer(t, false)
	groups, err := a.clinical.Grouped(context.Background(), "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	printGroups(&buf, groups)
	out := buf.String()
	for _, want := range []string{"2024 (2 patients, 1 records)", "January", "PT-0001", "Sarah Johnson"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}

	buf.Reset()
	printGroups(&buf, []clinical.YearGroup{})
	if !strings.Contains(buf.String(), "no admitted patients") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := writeWorkbook(path, store.New(store.DefaultSeed(), nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty workbook")
	}
}

func TestSeedCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"seed"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var seed store.Seed
	if err := json.Unmarshal(buf.Bytes(), &seed); err != nil {
		t.Fatalf("decode seed: %v", err)
	}
	if len(seed.Patients) != 2 || len(seed.Bills) != 1 {
		t.Errorf("unexpected seed: %d patients, %d bills", len(seed.Patients), len(seed.Bills))
	}
}

func TestRouter_HSTSOnlyOutsideDevelopment(t *testing.T) {
	_, e := newTestServer(t, false)
	if got := do(e, http.MethodGet, "/health", "").Header().Get("Strict-Transport-Security"); got == "" {
		t.Error("expected HSTS outside development")
	}

	cfg := testConfig(false)
	cfg.Env = "development"
	a, err := newApp(store.New(store.DefaultSeed(), nil), cfg)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	rec := do(a.router(cfg, zerolog.Nop()), http.MethodGet, "/health", "")
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("expected no HSTS in development, got %q", got)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected base security headers in development")
	}
}

func TestServeHelp_DocumentsOverdueSweep(t *testing.T) {
	cmd, _, err := rootCmd().Find([]string{"serve"})
	if err != nil {
		t.Fatalf("find serve: %v", err)
	}
	if !strings.Contains(cmd.Long, "OVERDUE_SWEEP_SCHEDULE") || !strings.Contains(cmd.Long, "off by default") {
		t.Errorf("serve help does not describe the overdue sweep: %q", cmd.Long)
	}
}
