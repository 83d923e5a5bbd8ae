// Package store holds the hospital's six entity collections in memory. A
// Store is built from a Seed and can be returned to it with Reset, which is
// how a restart behaves.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/carepoint/hms/internal/domain/billing"
	"github.com/carepoint/hms/internal/domain/clinical"
	"github.com/carepoint/hms/internal/domain/facility"
	"github.com/carepoint/hms/internal/domain/identity"
	"github.com/carepoint/hms/internal/domain/scheduling"
	"github.com/carepoint/hms/internal/platform/memstore"
)

// Collection names accepted by GetAll and GetByID.
const (
	Patients       = "patients"
	Doctors        = "doctors"
	Appointments   = "appointments"
	Rooms          = "rooms"
	MedicalRecords = "medical_records"
	Bills          = "bills"
)

// Entities lists the collection names in display order.
var Entities = []string{Patients, Doctors, Appointments, Rooms, MedicalRecords, Bills}

var ErrUnknownEntity = errors.New("unknown entity")

type Store struct {
	// resetMu keeps Snapshot from interleaving with Reset.
	resetMu sync.RWMutex
	seed    Seed

	Patients       *memstore.Collection[identity.Patient]
	Doctors        *memstore.Collection[identity.Doctor]
	Appointments   *memstore.Collection[scheduling.Appointment]
	Rooms          *memstore.Collection[facility.Room]
	MedicalRecords *memstore.Collection[clinical.MedicalRecord]
	Bills          *memstore.Collection[billing.Bill]
}

// New builds a store from seed. newIDs picks the id strategy for every
// collection; nil means sequential ids.
func New(seed Seed, newIDs func() memstore.IDGenerator) *Store {
	return &Store{
		seed:           seed,
		Patients:       memstore.New(Patients, newIDs, seed.Patients),
		Doctors:        memstore.New(Doctors, newIDs, seed.Doctors),
		Appointments:   memstore.New(Appointments, newIDs, seed.Appointments),
		Rooms:          memstore.New(Rooms, newIDs, seed.Rooms),
		MedicalRecords: memstore.New(MedicalRecords, newIDs, seed.MedicalRecords),
		Bills:          memstore.New(Bills, newIDs, seed.Bills),
	}
}

// GetAll returns every record of entity, e.g. []identity.Patient for
// "patients".
func (s *Store) GetAll(entity string) (any, error) {
	switch entity {
	case Patients:
		return s.Patients.All(), nil
	case Doctors:
		return s.Doctors.All(), nil
	case Appointments:
		return s.Appointments.All(), nil
	case Rooms:
		return s.Rooms.All(), nil
	case MedicalRecords:
		return s.MedicalRecords.All(), nil
	case Bills:
		return s.Bills.All(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
}

// GetByID returns the record of entity with id, or memstore.ErrNotFound.
func (s *Store) GetByID(entity, id string) (any, error) {
	var (
		rec any
		ok  bool
	)
	switch entity {
	case Patients:
		rec, ok = s.Patients.Get(id)
	case Doctors:
		rec, ok = s.Doctors.Get(id)
	case Appointments:
		rec, ok = s.Appointments.Get(id)
	case Rooms:
		rec, ok = s.Rooms.Get(id)
	case MedicalRecords:
		rec, ok = s.MedicalRecords.Get(id)
	case Bills:
		rec, ok = s.Bills.Get(id)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", entity, id, memstore.ErrNotFound)
	}
	return rec, nil
}

// Snapshot copies all six collections. The result shares nothing with the
// store, so later writes never show through it.
func (s *Store) Snapshot() Seed {
	s.resetMu.RLock()
	defer s.resetMu.RUnlock()
	return Seed{
		Patients:       s.Patients.All(),
		Doctors:        s.Doctors.All(),
		Appointments:   s.Appointments.All(),
		Rooms:          s.Rooms.All(),
		MedicalRecords: s.MedicalRecords.All(),
		Bills:          s.Bills.All(),
	}
}

// Counts returns the record count per collection name.
func (s *Store) Counts() map[string]int {
	return map[string]int{
		Patients:       s.Patients.Len(),
		Doctors:        s.Doctors.Len(),
		Appointments:   s.Appointments.Len(),
		Rooms:          s.Rooms.Len(),
		MedicalRecords: s.MedicalRecords.Len(),
		Bills:          s.Bills.Len(),
	}
}

// Reset drops every change and reloads the seed the store was built with.
// Id counters restart from the seed.
func (s *Store) Reset() {
	s.resetMu.Lock()
	defer s.resetMu.Unlock()
	s.Patients.Reset(s.seed.Patients)
	s.Doctors.Reset(s.seed.Doctors)
	s.Appointments.Reset(s.seed.Appointments)
	s.Rooms.Reset(s.seed.Rooms)
	s.MedicalRecords.Reset(s.seed.MedicalRecords)
	s.Bills.Reset(s.seed.Bills)
}
