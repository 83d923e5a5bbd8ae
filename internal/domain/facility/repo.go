package facility

import (
	"context"
)

type RoomRepository interface {
	Create(ctx context.Context, r *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	Update(ctx context.Context, r *Room) error
	List(ctx context.Context) ([]*Room, error)
	Filter(ctx context.Context, match func(*Room) bool) ([]*Room, error)
}
