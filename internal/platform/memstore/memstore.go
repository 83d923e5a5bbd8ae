// Package memstore provides the copy-on-write collections the entity store is
// built from. Readers always receive deep clones; writers build a fresh backing
// slice under the collection's lock, so a slice handed out before a write never
// observes it.
package memstore

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrVersionConflict = errors.New("version conflict")
	ErrDuplicateID     = errors.New("duplicate id")
)

// Entity is implemented by every record type kept in a Collection. All methods
// use value receivers so a Collection never hands out a pointer into its state.
type Entity[T any] interface {
	Key() string
	Version() int
	Clone() T
	WithMeta(id string, version int) T
}

// Check runs under the write lock before Insert or Update commits. It gets
// the record about to be stored and every other stored record, and returns
// the record to store or an error that aborts the write.
type Check[T any] func(item T, others []T) (T, error)

// Collection is an ordered, id-keyed set of records of one type.
type Collection[T Entity[T]] struct {
	name   string
	newIDs func() IDGenerator
	check  Check[T]

	mu    sync.RWMutex
	items []T
	ids   IDGenerator
}

// New creates a collection holding seed. Seed records without an id get one
// from the generator; every seed id is observed so generated ids never collide
// with it.
func New[T Entity[T]](name string, newIDs func() IDGenerator, seed []T) *Collection[T] {
	if newIDs == nil {
		newIDs = Sequential
	}
	c := &Collection[T]{name: name, newIDs: newIDs}
	c.load(seed)
	return c
}

// SetCheck installs fn on every later Insert and Update. Seed records are
// loaded without it.
func (c *Collection[T]) SetCheck(fn Check[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.check = fn
}

// Name returns the collection name used in error messages.
func (c *Collection[T]) Name() string { return c.name }

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// All returns a clone of every record in insertion order.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	items := c.items
	c.mu.RUnlock()

	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// Get returns a clone of the record with id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	items := c.items
	c.mu.RUnlock()

	for _, it := range items {
		if it.Key() == id {
			return it.Clone(), true
		}
	}
	var zero T
	return zero, false
}

// Filter returns clones of the records match accepts, in insertion order.
// match must not modify the record it is given.
func (c *Collection[T]) Filter(match func(T) bool) []T {
	c.mu.RLock()
	items := c.items
	c.mu.RUnlock()

	var out []T
	for _, it := range items {
		if match(it) {
			out = append(out, it.Clone())
		}
	}
	return out
}

// Insert appends item at version 1. An empty id is generated.
func (c *Collection[T]) Insert(item T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := item.Key()
	if id == "" {
		id = c.ids.Next()
	} else if c.indexOf(id) >= 0 {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", c.name, id, ErrDuplicateID)
	}
	c.ids.Observe(id)

	stored := item.Clone().WithMeta(id, 1)
	if c.check != nil {
		checked, err := c.check(stored, c.items)
		if err != nil {
			var zero T
			return zero, err
		}
		stored = checked.WithMeta(id, 1)
	}
	next := make([]T, len(c.items), len(c.items)+1)
	copy(next, c.items)
	c.items = append(next, stored)
	return stored.Clone(), nil
}

// Update replaces the record with id by the result of fn, which receives a
// clone of the current record. A non-zero expectedVersion must match the
// stored version. The id is preserved and the version incremented.
func (c *Collection[T]) Update(id string, expectedVersion int, fn func(T) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	idx := c.indexOf(id)
	if idx < 0 {
		return zero, fmt.Errorf("%s %s: %w", c.name, id, ErrNotFound)
	}
	current := c.items[idx]
	if expectedVersion != 0 && expectedVersion != current.Version() {
		return zero, fmt.Errorf("%s %s at version %d, got %d: %w",
			c.name, id, current.Version(), expectedVersion, ErrVersionConflict)
	}

	updated, err := fn(current.Clone())
	if err != nil {
		return zero, err
	}
	stored := updated.WithMeta(id, current.Version()+1)
	if c.check != nil {
		others := make([]T, 0, len(c.items)-1)
		others = append(others, c.items[:idx]...)
		others = append(others, c.items[idx+1:]...)
		checked, err := c.check(stored, others)
		if err != nil {
			return zero, err
		}
		stored = checked.WithMeta(id, current.Version()+1)
	}

	next := make([]T, len(c.items))
	copy(next, c.items)
	next[idx] = stored
	c.items = next
	return stored.Clone(), nil
}

// Delete removes the record with id.
func (c *Collection[T]) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%s %s: %w", c.name, id, ErrNotFound)
	}
	next := make([]T, 0, len(c.items)-1)
	next = append(next, c.items[:idx]...)
	next = append(next, c.items[idx+1:]...)
	c.items = next
	return nil
}

// Reset discards every record and reloads seed with a fresh id generator.
func (c *Collection[T]) Reset(seed []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load(seed)
}

// load must be called with the write lock held (or before the collection is shared).
func (c *Collection[T]) load(seed []T) {
	c.ids = c.newIDs()
	for _, it := range seed {
		c.ids.Observe(it.Key())
	}
	items := make([]T, 0, len(seed))
	for _, it := range seed {
		id := it.Key()
		if id == "" {
			id = c.ids.Next()
			c.ids.Observe(id)
		}
		v := it.Version()
		if v <= 0 {
			v = 1
		}
		items = append(items, it.Clone().WithMeta(id, v))
	}
	c.items = items
}

func (c *Collection[T]) indexOf(id string) int {
	for i, it := range c.items {
		if it.Key() == id {
			return i
		}
	}
	return -1
}
