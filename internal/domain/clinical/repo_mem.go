package clinical

import (
	"context"
	"fmt"

	"github.com/carepoint/hms/internal/platform/memstore"
)

type recordRepoMem struct {
	coll *memstore.Collection[MedicalRecord]
}

func NewRecordRepoMem(coll *memstore.Collection[MedicalRecord]) RecordRepository {
	return &recordRepoMem{coll: coll}
}

func (r *recordRepoMem) Create(_ context.Context, rec *MedicalRecord) error {
	stored, err := r.coll.Insert(*rec)
	if err != nil {
		return fmt.Errorf("create medical record: %w", err)
	}
	*rec = stored
	return nil
}

func (r *recordRepoMem) GetByID(_ context.Context, id string) (*MedicalRecord, error) {
	rec, ok := r.coll.Get(id)
	if !ok {
		return nil, fmt.Errorf("medical record %s: %w", id, memstore.ErrNotFound)
	}
	return &rec, nil
}

func (r *recordRepoMem) List(_ context.Context) ([]*MedicalRecord, error) {
	return ptrs(r.coll.All()), nil
}

func (r *recordRepoMem) Filter(_ context.Context, match func(*MedicalRecord) bool) ([]*MedicalRecord, error) {
	return ptrs(r.coll.Filter(func(rec MedicalRecord) bool { return match(&rec) })), nil
}

func ptrs(in []MedicalRecord) []*MedicalRecord {
	out := make([]*MedicalRecord, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}
