// Package activity keeps a bounded feed of the most recent changes made
// through the API, fed by the audit middleware.
package activity

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/carepoint/hms/internal/platform/middleware"
)

// DefaultCapacity is the feed size used when none is given.
const DefaultCapacity = 500

// Feed is a ring buffer of audit entries with per-entity change counters.
type Feed struct {
	mu       sync.RWMutex
	entries  []middleware.AuditEntry
	capacity int
	writePos int
	full     bool
	counts   map[string]int
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{
		entries:  make([]middleware.AuditEntry, 0, capacity),
		capacity: capacity,
		counts:   make(map[string]int),
	}
}

// RecordAccess implements middleware.AuditRecorder. Failed writes (status
// 400 and above) are not kept.
func (f *Feed) RecordAccess(entry middleware.AuditEntry) error {
	if entry.StatusCode >= http.StatusBadRequest {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.full {
		f.entries[f.writePos] = entry
	} else {
		f.entries = append(f.entries, entry)
	}
	f.writePos++
	if f.writePos >= f.capacity {
		f.writePos = 0
		f.full = true
	}
	f.counts[entry.Entity]++
	return nil
}

// Recent returns up to limit entries, newest first. A non-empty entity keeps
// only that entity's changes.
func (f *Feed) Recent(limit int, entity string) []middleware.AuditEntry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := []middleware.AuditEntry{}
	n := len(f.entries)
	for i := 0; i < n && (limit <= 0 || len(out) < limit); i++ {
		// walk backwards from the last write
		idx := (f.writePos - 1 - i + n) % n
		e := f.entries[idx]
		if entity != "" && e.Entity != entity {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Counts returns the number of changes recorded per entity since start,
// including ones that have left the buffer.
func (f *Feed) Counts() map[string]int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]int, len(f.counts))
	for k, v := range f.counts {
		out[k] = v
	}
	return out
}

type Handler struct {
	feed *Feed
}

func NewHandler(feed *Feed) *Handler {
	return &Handler{feed: feed}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/activity", h.List)
}

type listResponse struct {
	Data   []middleware.AuditEntry `json:"data"`
	Counts map[string]int          `json:"counts"`
}

// List returns ?limit= (default 20) recent changes, optionally for ?entity=.
func (h *Handler) List(c echo.Context) error {
	limit := 20
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return c.JSON(http.StatusOK, listResponse{
		Data:   h.feed.Recent(limit, c.QueryParam("entity")),
		Counts: h.feed.Counts(),
	})
}
