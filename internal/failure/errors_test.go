package failure_test

import (
	"errors"
	"strings"
	"testing"

	"mihonorg/internal/failure"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := failure.Wrap(failure.ErrFilesystem, "organize", "move", "move image", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, failure.ErrFilesystem) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"organize", "move", "move image", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := failure.Wrap(failure.ErrValidation, "partition", "", "images per chapter must be positive", nil)
	if !errors.Is(err, failure.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if got := err.Error(); got != "validation error: partition: images per chapter must be positive" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := failure.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, failure.ErrFilesystem) {
		t.Fatalf("expected filesystem marker fallback, got %v", err)
	}
	if !strings.Contains(err.Error(), "operation failed") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", failure.Wrap(failure.ErrValidation, "x", "", "", nil), "validation"},
		{"config", failure.Wrap(failure.ErrConfiguration, "x", "", "", nil), "configuration"},
		{"not found", failure.Wrap(failure.ErrNotFound, "x", "", "", nil), "not_found"},
		{"exhausted", failure.Wrap(failure.ErrExhausted, "x", "", "", nil), "exhausted"},
		{"locked", failure.Wrap(failure.ErrLocked, "x", "", "", nil), "locked"},
		{"plain", errors.New("disk on fire"), "filesystem"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.Kind(tt.err); got != tt.want {
				t.Fatalf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}
