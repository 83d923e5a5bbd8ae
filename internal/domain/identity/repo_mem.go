package identity

import (
	"context"
	"fmt"

	"github.com/carepoint/hms/internal/platform/memstore"
)

type patientRepoMem struct {
	coll *memstore.Collection[Patient]
}

func NewPatientRepoMem(coll *memstore.Collection[Patient]) PatientRepository {
	coll.SetCheck(checkPatientNumber)
	return &patientRepoMem{coll: coll}
}

func (r *patientRepoMem) Create(_ context.Context, p *Patient) error {
	stored, err := r.coll.Insert(*p)
	if err != nil {
		return fmt.Errorf("create patient: %w", err)
	}
	*p = stored
	return nil
}

func (r *patientRepoMem) GetByID(_ context.Context, id string) (*Patient, error) {
	p, ok := r.coll.Get(id)
	if !ok {
		return nil, fmt.Errorf("patient %s: %w", id, memstore.ErrNotFound)
	}
	return &p, nil
}

func (r *patientRepoMem) Update(_ context.Context, p *Patient) error {
	stored, err := r.coll.Update(p.ID, p.VersionID, func(Patient) (Patient, error) {
		return p.Clone(), nil
	})
	if err != nil {
		return err
	}
	*p = stored
	return nil
}

func (r *patientRepoMem) List(_ context.Context) ([]*Patient, error) {
	return patientPtrs(r.coll.All()), nil
}

func (r *patientRepoMem) Filter(_ context.Context, match func(*Patient) bool) ([]*Patient, error) {
	return patientPtrs(r.coll.Filter(func(p Patient) bool { return match(&p) })), nil
}

func patientPtrs(in []Patient) []*Patient {
	out := make([]*Patient, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}

type doctorRepoMem struct {
	coll *memstore.Collection[Doctor]
}

func NewDoctorRepoMem(coll *memstore.Collection[Doctor]) DoctorRepository {
	return &doctorRepoMem{coll: coll}
}

func (r *doctorRepoMem) Create(_ context.Context, d *Doctor) error {
	stored, err := r.coll.Insert(*d)
	if err != nil {
		return fmt.Errorf("create doctor: %w", err)
	}
	*d = stored
	return nil
}

func (r *doctorRepoMem) GetByID(_ context.Context, id string) (*Doctor, error) {
	d, ok := r.coll.Get(id)
	if !ok {
		return nil, fmt.Errorf("doctor %s: %w", id, memstore.ErrNotFound)
	}
	return &d, nil
}

func (r *doctorRepoMem) Update(_ context.Context, d *Doctor) error {
	stored, err := r.coll.Update(d.ID, d.VersionID, func(Doctor) (Doctor, error) {
		return d.Clone(), nil
	})
	if err != nil {
		return err
	}
	*d = stored
	return nil
}

func (r *doctorRepoMem) Delete(_ context.Context, id string) error {
	return r.coll.Delete(id)
}

func (r *doctorRepoMem) List(_ context.Context) ([]*Doctor, error) {
	return doctorPtrs(r.coll.All()), nil
}

func (r *doctorRepoMem) Filter(_ context.Context, match func(*Doctor) bool) ([]*Doctor, error) {
	return doctorPtrs(r.coll.Filter(func(d Doctor) bool { return match(&d) })), nil
}

func doctorPtrs(in []Doctor) []*Doctor {
	out := make([]*Doctor, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}
