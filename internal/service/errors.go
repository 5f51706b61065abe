// Package service implements the reservation domain: availability
// checking, the reservation lifecycle, lease catalog management and the
// expiration sweeper. Handlers call into this package and translate its
// error kinds into HTTP status codes; the package itself knows nothing
// about HTTP.
package service

import (
	"errors"
	"fmt"
)

// Error kinds returned by the service layer. Every domain failure wraps
// exactly one of these sentinels, so handlers can map with errors.Is:
//
//	ErrNotFound        -> 404
//	ErrBusinessRule    -> 400
//	ErrForbidden       -> 403
//	ErrUnauthenticated -> 401
//	anything else      -> 500
//
// A kind is never reused for two semantically different situations; the
// wrapped message carries the human-readable detail.
var (
	ErrNotFound        = errors.New("not found")
	ErrBusinessRule    = errors.New("business rule violated")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// notFound wraps ErrNotFound with a message.
func notFound(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// businessRule wraps ErrBusinessRule with a message.
func businessRule(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrBusinessRule)...)
}

// forbidden wraps ErrForbidden with a message.
func forbidden(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrForbidden)...)
}
