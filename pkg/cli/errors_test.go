package cli

import (
	"errors"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("format", "unknown output format")

	expected := "config error in format: unknown output format"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := NewCommandError("lint", underlyingErr)

	expected := "command lint failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestFindingsError(t *testing.T) {
	var err error = NewCommandError("lint", &FindingsError{Count: 2})

	var fe *FindingsError
	if !errors.As(err, &fe) {
		t.Fatal("errors.As() did not find FindingsError")
	}
	if fe.Count != 2 {
		t.Errorf("Count = %d, want 2", fe.Count)
	}
}
