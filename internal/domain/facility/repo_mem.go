package facility

import (
	"context"
	"fmt"

	"github.com/carepoint/hms/internal/platform/memstore"
)

type roomRepoMem struct {
	coll *memstore.Collection[Room]
}

func NewRoomRepoMem(coll *memstore.Collection[Room]) RoomRepository {
	return &roomRepoMem{coll: coll}
}

func (r *roomRepoMem) Create(_ context.Context, room *Room) error {
	stored, err := r.coll.Insert(*room)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	*room = stored
	return nil
}

func (r *roomRepoMem) GetByID(_ context.Context, id string) (*Room, error) {
	room, ok := r.coll.Get(id)
	if !ok {
		return nil, fmt.Errorf("room %s: %w", id, memstore.ErrNotFound)
	}
	return &room, nil
}

func (r *roomRepoMem) Update(_ context.Context, room *Room) error {
	stored, err := r.coll.Update(room.ID, room.VersionID, func(Room) (Room, error) {
		return room.Clone(), nil
	})
	if err != nil {
		return err
	}
	*room = stored
	return nil
}

func (r *roomRepoMem) List(_ context.Context) ([]*Room, error) {
	return ptrs(r.coll.All()), nil
}

func (r *roomRepoMem) Filter(_ context.Context, match func(*Room) bool) ([]*Room, error) {
	return ptrs(r.coll.Filter(func(room Room) bool { return match(&room) })), nil
}

func ptrs(in []Room) []*Room {
	out := make([]*Room, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}
