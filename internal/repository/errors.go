// Package repository contains the data access layer. This file defines
// sentinel errors shared across repositories so that the service layer
// can distinguish failure scenarios with errors.Is instead of matching
// on driver-specific error strings.
package repository

import "errors"

// ErrLeaseNotFound indicates that no lease row matched the given id.
var ErrLeaseNotFound = errors.New("lease not found")

// ErrLeaseNameTaken is returned when an insert or update would violate
// the unique constraint on leases.name.
var ErrLeaseNameTaken = errors.New("lease name already exists")

// ErrReservationNotFound indicates that no reservation row matched the
// given id.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrLeaseUnavailable is returned by CreateIfFree when an active
// reservation already overlaps the requested interval.
var ErrLeaseUnavailable = errors.New("lease unavailable for the requested interval")

// ErrUserNotFound indicates that no user row matched the given id or email.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")
