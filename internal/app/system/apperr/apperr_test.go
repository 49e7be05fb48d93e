package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{Authentication, http.StatusUnauthorized},
		{Authorization, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
		{Persistence, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.kind.Status(); got != tt.want {
			t.Errorf("%s.Status(): got %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	base := E(Conflict, "Email already in use", errors.New("E11000 duplicate key"))
	wrapped := fmt.Errorf("update admin: %w", base)

	if got := KindOf(wrapped); got != Conflict {
		t.Errorf("KindOf(wrapped): got %s, want conflict", got)
	}
	if !Is(wrapped, Conflict) {
		t.Error("Is(wrapped, Conflict) = false, want true")
	}
	if got := Message(wrapped, "fallback"); got != "Email already in use" {
		t.Errorf("Message: got %q, want %q", got, "Email already in use")
	}
}

func TestKindOf_Unclassified(t *testing.T) {
	err := errors.New("connection reset")
	if got := KindOf(err); got != Persistence {
		t.Errorf("KindOf(plain): got %s, want persistence", got)
	}
	if got := Message(err, "Internal server error"); got != "Internal server error" {
		t.Errorf("Message(plain): got %q, want fallback", got)
	}
	if Is(nil, Persistence) {
		t.Error("Is(nil, Persistence) = true, want false")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := E(Persistence, "Failed to save", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if err.Error() != "Failed to save: boom" {
		t.Errorf("Error(): got %q", err.Error())
	}
}
