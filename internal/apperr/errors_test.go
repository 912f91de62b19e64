package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("create order: %w", InvalidInput("cart is empty"))

	if got := KindOf(err); got != KindInvalidInput {
		t.Errorf("expected %v, got %v", KindInvalidInput, got)
	}
	if !Is(err, KindInvalidInput) {
		t.Error("expected Is to match wrapped kind")
	}
}

func TestKindOf_PlainError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Errorf("expected %v, got %v", KindInternal, got)
	}
	if Is(nil, KindInternal) {
		t.Error("nil error must not match any kind")
	}
}

func TestDegraded_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Degraded("deduct stock", cause)

	if !errors.Is(err, cause) {
		t.Error("expected degraded error to wrap its cause")
	}
	if err.Error() != "deduct stock: connection refused" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if err.Kind.String() != "DEGRADED_SIDE_EFFECT" {
		t.Errorf("unexpected kind name %q", err.Kind.String())
	}
}
