package img2line

import (
	"errors"
	"fmt"
	"testing"
)

func TestInvalidInputErrorMessage(t *testing.T) {
	err := &InvalidInputError{Reason: "nil image"}
	if got := err.Error(); got != "invalid input image: nil image" {
		t.Errorf("message: got %q", got)
	}
}

func TestInternalInvariantErrorMessage(t *testing.T) {
	err := &InternalInvariantError{Stage: "connect", Reason: "dimensions changed from 10x10 to 9x10"}
	want := "pipeline invariant violated at connect: dimensions changed from 10x10 to 9x10"
	if got := err.Error(); got != want {
		t.Errorf("message: got %q, want %q", got, want)
	}
}

func TestErrorsMatchThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("failed to process page 3: %w", &InvalidInputError{Reason: "nil image"})

	var invalid *InvalidInputError
	if !errors.As(wrapped, &invalid) {
		t.Fatal("expected to unwrap InvalidInputError")
	}
	if invalid.Reason != "nil image" {
		t.Errorf("reason lost in wrapping: %q", invalid.Reason)
	}

	var invariant *InternalInvariantError
	if errors.As(wrapped, &invariant) {
		t.Error("an input error must not match the invariant type")
	}
}
