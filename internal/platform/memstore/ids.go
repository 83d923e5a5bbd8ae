package memstore

import (
	"strconv"

	"github.com/google/uuid"
)

// IDGenerator hands out record ids for one collection. Observe is called with
// every id that enters the collection so generated ids stay unique.
type IDGenerator interface {
	Next() string
	Observe(id string)
}

// Sequential returns a monotonic counter. It starts after the largest numeric id
// observed and never reuses a value, even after deletes.
func Sequential() IDGenerator {
	return &sequence{}
}

// Random returns a generator of random UUIDs.
func Random() IDGenerator {
	return uuidGen{}
}

// Strategy maps an ID_STRATEGY config value to a generator factory.
func Strategy(name string) (func() IDGenerator, bool) {
	switch name {
	case "", "sequence":
		return Sequential, true
	case "uuid":
		return Random, true
	}
	return nil, false
}

type sequence struct {
	last int
}

func (s *sequence) Next() string {
	s.last++
	return strconv.Itoa(s.last)
}

func (s *sequence) Observe(id string) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return
	}
	if n > s.last {
		s.last = n
	}
}

type uuidGen struct{}

func (uuidGen) Next() string   { return uuid.NewString() }
func (uuidGen) Observe(string) {}
