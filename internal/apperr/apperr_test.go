package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"invalid", InvalidArgument("bad %s", "x"), KindInvalidArgument},
		{"not found", NotFound("step %q", "a"), KindNotFound},
		{"conflict", Conflict("dup"), KindConflict},
		{"internal", Internal(errors.New("disk full"), "persist"), KindInternal},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("inner")), KindNotFound},
		{"unclassified", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInternal_UnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal(cause, "saving graph")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if got := err.Error(); got != "internal: saving graph: disk full" {
		t.Errorf("Error() = %q", got)
	}
	if got := Message(err); got != "saving graph: disk full" {
		t.Errorf("Message() = %q", got)
	}
}

func TestIs(t *testing.T) {
	if !Is(NotFound("x"), KindNotFound) {
		t.Error("Is(NotFound, KindNotFound) = false")
	}
	if Is(nil, KindNotFound) {
		t.Error("Is(nil, ...) = true")
	}
	if Is(Conflict("x"), KindNotFound) {
		t.Error("Is(Conflict, KindNotFound) = true")
	}
}
