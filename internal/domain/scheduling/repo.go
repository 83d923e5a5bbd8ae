package scheduling

import (
	"context"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	List(ctx context.Context) ([]*Appointment, error)
	Filter(ctx context.Context, match func(*Appointment) bool) ([]*Appointment, error)
}
