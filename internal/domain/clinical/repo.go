package clinical

import (
	"context"
)

type RecordRepository interface {
	Create(ctx context.Context, r *MedicalRecord) error
	GetByID(ctx context.Context, id string) (*MedicalRecord, error)
	List(ctx context.Context) ([]*MedicalRecord, error)
	Filter(ctx context.Context, match func(*MedicalRecord) bool) ([]*MedicalRecord, error)
}
