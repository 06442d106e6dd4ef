package sorerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestRouterErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := New("router.Route", TransportFailure, cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to find the wrapped cause")
	}
	if got := err.Error(); got == "" {
		t.Fatalf("expected non-empty error string")
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := New("splitoptimizer.FindBest", ConfigInvalid, fmt.Errorf("maxSplits too high"))

	if !Is(err, ConfigInvalid) {
		t.Fatalf("expected Is to match ConfigInvalid")
	}
	if Is(err, TokenNotFound) {
		t.Fatalf("expected Is not to match a different kind")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New("poolaccessor.GetPools", PoolMissing, errors.New("no data"))
	outer := fmt.Errorf("select pools: %w", inner)

	if !Is(outer, PoolMissing) {
		t.Fatalf("expected Is to see through fmt.Errorf wrapping")
	}
}

func TestErrorStringWithoutCause(t *testing.T) {
	err := New("config.Validate", ConfigInvalid, nil)
	want := "config.Validate: config_invalid"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
