package billing

import (
	"context"
	"fmt"

	"github.com/carepoint/hms/internal/platform/memstore"
)

type billRepoMem struct {
	coll *memstore.Collection[Bill]
}

func NewBillRepoMem(coll *memstore.Collection[Bill]) BillRepository {
	return &billRepoMem{coll: coll}
}

func (r *billRepoMem) Create(_ context.Context, b *Bill) error {
	stored, err := r.coll.Insert(*b)
	if err != nil {
		return fmt.Errorf("create bill: %w", err)
	}
	*b = stored
	return nil
}

func (r *billRepoMem) GetByID(_ context.Context, id string) (*Bill, error) {
	b, ok := r.coll.Get(id)
	if !ok {
		return nil, fmt.Errorf("bill %s: %w", id, memstore.ErrNotFound)
	}
	return &b, nil
}

func (r *billRepoMem) Update(_ context.Context, b *Bill) error {
	stored, err := r.coll.Update(b.ID, b.VersionID, func(Bill) (Bill, error) {
		return b.Clone(), nil
	})
	if err != nil {
		return err
	}
	*b = stored
	return nil
}

func (r *billRepoMem) List(_ context.Context) ([]*Bill, error) {
	return ptrs(r.coll.All()), nil
}

func (r *billRepoMem) Filter(_ context.Context, match func(*Bill) bool) ([]*Bill, error) {
	return ptrs(r.coll.Filter(func(b Bill) bool { return match(&b) })), nil
}

func ptrs(in []Bill) []*Bill {
	out := make([]*Bill, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}
