package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// AuditEntry describes one change made through the API.
type AuditEntry struct {
	Entity     string    `json:"entity"`
	RecordID   string    `json:"record_id,omitempty"`
	PatientID  string    `json:"patient_id,omitempty"`
	Action     string    `json:"action"` // create, update, delete
	Path       string    `json:"path"`
	Method     string    `json:"method"`
	IPAddress  string    `json:"ip_address"`
	RequestID  string    `json:"request_id,omitempty"`
	StatusCode int       `json:"status_code"`
	Timestamp  time.Time `json:"timestamp"`
}

// AuditRecorder receives every audit entry in addition to the log line.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// Audit logs every write under prefix (e.g. "/api/v1/") with the entity and
// record it touched. Reads are not audited.
func Audit(logger zerolog.Logger, prefix string, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path
			action := httpMethodToAction(req.Method)
			if action == "" || !strings.HasPrefix(path, prefix) {
				return next(c)
			}

			err := next(c)

			entry := AuditEntry{
				Timestamp:  time.Now().UTC(),
				Path:       path,
				Method:     req.Method,
				Action:     action,
				IPAddress:  c.RealIP(),
				StatusCode: c.Response().Status,
			}
			if err != nil {
				entry.StatusCode = http.StatusInternalServerError
				if he, ok := err.(*echo.HTTPError); ok {
					entry.StatusCode = he.Code
				}
			}
			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}
			entry.Entity, entry.RecordID = splitEntityPath(strings.TrimPrefix(path, prefix))
			if entry.Entity == "patients" {
				entry.PatientID = entry.RecordID
			}

			for _, r := range recorders {
				if r == nil {
					continue
				}
				if recErr := r.RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "audit").
				Str("request_id", entry.RequestID).
				Str("entity", entry.Entity).
				Str("record_id", entry.RecordID).
				Str("patient_id", entry.PatientID).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("record_change")

			return err
		}
	}
}

// httpMethodToAction maps write methods to audit actions; reads map to "".
func httpMethodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	}
	return ""
}

// splitEntityPath reads "bills/7/payments" as entity "bills", record "7".
func splitEntityPath(rest string) (entity, id string) {
	segments := strings.Split(strings.Trim(rest, "/"), "/")
	if len(segments) > 0 {
		entity = segments[0]
	}
	if len(segments) > 1 {
		id = segments[1]
	}
	if entity == "" {
		entity = "unknown"
	}
	return entity, id
}
