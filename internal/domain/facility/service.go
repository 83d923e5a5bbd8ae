package facility

import (
	"context"
	"fmt"
	"strings"

	"github.com/carepoint/hms/internal/domain/model"
)

type Service struct {
	rooms RoomRepository
	refs  model.ReferenceChecker
}

func NewService(rooms RoomRepository) *Service {
	return &Service{rooms: rooms}
}

// SetReferenceChecker turns on strict occupant checks.
func (s *Service) SetReferenceChecker(rc model.ReferenceChecker) {
	s.refs = rc
}

func (s *Service) AddRoom(ctx context.Context, r *Room) error {
	if err := model.Required("room_number", r.RoomNumber); err != nil {
		return err
	}
	if r.Type == "" {
		r.Type = "General"
	}
	if !validRoomTypes[r.Type] {
		return fmt.Errorf("%w: invalid room type: %s", model.ErrValidation, r.Type)
	}
	if r.Status == "" {
		r.Status = RoomAvailable
	}
	if !RoomTransitions.Valid(r.Status) {
		return fmt.Errorf("%w: invalid room status: %s", model.ErrValidation, r.Status)
	}
	if err := checkOccupant(r.Status, r.PatientID); err != nil {
		return err
	}
	if err := model.VerifyReferences(s.refs, r.PatientID, ""); err != nil {
		return err
	}
	if r.Capacity < 0 || r.DailyRate < 0 {
		return fmt.Errorf("%w: capacity and daily_rate must not be negative", model.ErrValidation)
	}
	r.ID = ""
	return s.rooms.Create(ctx, r)
}

func checkOccupant(status RoomStatus, patientID string) error {
	occupied := status == RoomOccupied
	has := strings.TrimSpace(patientID) != ""
	switch {
	case occupied && !has:
		return fmt.Errorf("%w: patient_id is required for an occupied room", model.ErrValidation)
	case !occupied && has:
		return fmt.Errorf("%w: patient_id is only allowed on an occupied room", model.ErrValidation)
	}
	return nil
}

func (s *Service) GetRoom(ctx context.Context, id string) (*Room, error) {
	return s.rooms.GetByID(ctx, id)
}

func (s *Service) ListRooms(ctx context.Context) ([]*Room, error) {
	return s.rooms.List(ctx)
}

// RoomsByStatus filters on status; model.AllFilter or "" returns every room.
func (s *Service) RoomsByStatus(ctx context.Context, status string) ([]*Room, error) {
	if status == "" || status == model.AllFilter {
		return s.rooms.List(ctx)
	}
	return s.rooms.Filter(ctx, func(r *Room) bool { return string(r.Status) == status })
}

// CountByStatus returns the number of rooms in each status, every status
// present even when zero.
func (s *Service) CountByStatus(ctx context.Context) (map[RoomStatus]int, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[RoomStatus]int, len(Statuses))
	for _, st := range Statuses {
		counts[st] = 0
	}
	for _, r := range rooms {
		counts[r.Status]++
	}
	return counts, nil
}

// SetRoomStatus moves a room to status. Occupied requires patientID and
// records it; every other status clears the occupant.
func (s *Service) SetRoomStatus(ctx context.Context, id string, status RoomStatus, patientID string) (*Room, error) {
	r, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := model.CheckVersion(ctx, "room", id, r.VersionID); err != nil {
		return nil, err
	}
	if err := RoomTransitions.Validate("room", r.Status, status); err != nil {
		return nil, err
	}
	if status != RoomOccupied {
		patientID = ""
	}
	if err := checkOccupant(status, patientID); err != nil {
		return nil, err
	}
	if err := model.VerifyReferences(s.refs, patientID, ""); err != nil {
		return nil, err
	}
	if r.Status == status && r.PatientID == patientID {
		return r, nil
	}
	r.Status = status
	r.PatientID = patientID
	if err := s.rooms.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}
