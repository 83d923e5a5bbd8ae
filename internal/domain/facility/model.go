package facility

import (
	"slices"

	"github.com/carepoint/hms/internal/domain/model"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "Available"
	RoomOccupied    RoomStatus = "Occupied"
	RoomMaintenance RoomStatus = "Maintenance"
	RoomReserved    RoomStatus = "Reserved"
)

var RoomTransitions = model.Transitions[RoomStatus]{
	RoomAvailable:   {RoomOccupied, RoomMaintenance, RoomReserved},
	RoomOccupied:    {RoomAvailable, RoomMaintenance},
	RoomMaintenance: {RoomAvailable},
	RoomReserved:    {RoomOccupied, RoomAvailable},
}

// Statuses lists room statuses in display order.
var Statuses = []RoomStatus{RoomAvailable, RoomOccupied, RoomMaintenance, RoomReserved}

var validRoomTypes = map[string]bool{
	"General":   true,
	"ICU":       true,
	"Private":   true,
	"Emergency": true,
	"Surgery":   true,
}

// Room is a bed-bearing room. PatientID is set exactly when the room is
// Occupied.
type Room struct {
	ID         string     `json:"id"`
	RoomNumber string     `json:"room_number"`
	Type       string     `json:"type"`
	Status     RoomStatus `json:"status"`
	PatientID  string     `json:"patient_id,omitempty"`
	Floor      int        `json:"floor"`
	Capacity   int        `json:"capacity"`
	Equipment  []string   `json:"equipment"`
	DailyRate  float64    `json:"daily_rate"`
	VersionID  int        `json:"version_id"`
}

func (r Room) Key() string  { return r.ID }
func (r Room) Version() int { return r.VersionID }

func (r Room) Clone() Room {
	r.Equipment = slices.Clone(r.Equipment)
	return r
}

func (r Room) WithMeta(id string, version int) Room {
	r.ID = id
	r.VersionID = version
	return r
}
