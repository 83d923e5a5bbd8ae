package scheduling

import (
	"context"
	"fmt"

	"github.com/carepoint/hms/internal/platform/memstore"
)

type appointmentRepoMem struct {
	coll *memstore.Collection[Appointment]
}

func NewAppointmentRepoMem(coll *memstore.Collection[Appointment]) AppointmentRepository {
	return &appointmentRepoMem{coll: coll}
}

func (r *appointmentRepoMem) Create(_ context.Context, a *Appointment) error {
	stored, err := r.coll.Insert(*a)
	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	*a = stored
	return nil
}

func (r *appointmentRepoMem) GetByID(_ context.Context, id string) (*Appointment, error) {
	a, ok := r.coll.Get(id)
	if !ok {
		return nil, fmt.Errorf("appointment %s: %w", id, memstore.ErrNotFound)
	}
	return &a, nil
}

func (r *appointmentRepoMem) Update(_ context.Context, a *Appointment) error {
	stored, err := r.coll.Update(a.ID, a.VersionID, func(Appointment) (Appointment, error) {
		return *a, nil
	})
	if err != nil {
		return err
	}
	*a = stored
	return nil
}

func (r *appointmentRepoMem) List(_ context.Context) ([]*Appointment, error) {
	return ptrs(r.coll.All()), nil
}

func (r *appointmentRepoMem) Filter(_ context.Context, match func(*Appointment) bool) ([]*Appointment, error) {
	return ptrs(r.coll.Filter(func(a Appointment) bool { return match(&a) })), nil
}

func ptrs(in []Appointment) []*Appointment {
	out := make([]*Appointment, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}
