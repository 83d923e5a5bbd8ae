package model

import (
	"context"
	"fmt"
)

type expectedVersionKey struct{}

// WithExpectedVersion returns a context carrying the version_id the caller
// last read. Mutations made under it fail with ErrVersionConflict when the
// record has moved on.
func WithExpectedVersion(ctx context.Context, version int) context.Context {
	if version <= 0 {
		return ctx
	}
	return context.WithValue(ctx, expectedVersionKey{}, version)
}

// ExpectedVersion returns the version set by WithExpectedVersion, or 0.
func ExpectedVersion(ctx context.Context) int {
	v, _ := ctx.Value(expectedVersionKey{}).(int)
	return v
}

// CheckVersion compares the stored version with the one the caller expects.
func CheckVersion(ctx context.Context, entity, id string, stored int) error {
	want := ExpectedVersion(ctx)
	if want == 0 || want == stored {
		return nil
	}
	return fmt.Errorf("%s %s at version %d, got %d: %w", entity, id, stored, want, ErrVersionConflict)
}
