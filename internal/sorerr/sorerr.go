// Package sorerr defines the router's typed error kinds and propagation
// policy (spec §7).
package sorerr

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a router failure so callers can apply the
// spec's per-kind policy (fatal, surfaced, or recovered).
type ErrorKind string

const (
	ConfigInvalid       ErrorKind = "config_invalid"
	TokenNotFound       ErrorKind = "token_not_found"
	TransportFailure    ErrorKind = "transport_failure"
	QuoteInvalid        ErrorKind = "quote_invalid"
	PoolMissing         ErrorKind = "pool_missing"
	NoRouteFound        ErrorKind = "no_route_found"
	GasPriceUnavailable ErrorKind = "gas_price_unavailable"
)

// RouterError wraps an underlying error with the stage and kind that
// produced it.
type RouterError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *RouterError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *RouterError) Unwrap() error {
	return e.Err
}

// New builds a RouterError for the given stage and kind.
func New(op string, kind ErrorKind, err error) *RouterError {
	return &RouterError{Op: op, Kind: kind, Err: err}
}

// Is reports whether err (or any error it wraps) carries the given kind.
func Is(err error, kind ErrorKind) bool {
	var re *RouterError
	if !errors.As(err, &re) {
		return false
	}
	return re.Kind == kind
}
