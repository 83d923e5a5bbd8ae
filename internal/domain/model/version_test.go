package model

import (
	"context"
	"errors"
	"testing"
)

func TestExpectedVersion_Unset(t *testing.T) {
	if v := ExpectedVersion(context.Background()); v != 0 {
		t.Errorf("expected 0, got %d", v)
	}
	if err := CheckVersion(context.Background(), "patient", "1", 4); err != nil {
		t.Errorf("unset version must not conflict: %v", err)
	}
}

func TestCheckVersion(t *testing.T) {
	ctx := WithExpectedVersion(context.Background(), 2)
	if err := CheckVersion(ctx, "patient", "1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := CheckVersion(ctx, "patient", "1", 3)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestWithExpectedVersion_IgnoresNonPositive(t *testing.T) {
	ctx := WithExpectedVersion(context.Background(), 0)
	if ExpectedVersion(ctx) != 0 {
		t.Error("zero version should leave context untouched")
	}
}
