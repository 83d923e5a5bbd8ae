package billing

import (
	"context"
)

type BillRepository interface {
	Create(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, id string) (*Bill, error)
	Update(ctx context.Context, b *Bill) error
	List(ctx context.Context) ([]*Bill, error)
	Filter(ctx context.Context, match func(*Bill) bool) ([]*Bill, error)
}
