package identity

import (
	"context"
)

// PatientRepository stores patients. Update uses p.VersionID as the expected
// stored version and writes the new version back into p.
type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	List(ctx context.Context) ([]*Patient, error)
	Filter(ctx context.Context, match func(*Patient) bool) ([]*Patient, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id string) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Doctor, error)
	Filter(ctx context.Context, match func(*Doctor) bool) ([]*Doctor, error)
}
