package model

import "time"

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

// Reservation lifecycle states. A reservation begins PENDING and moves
// through the state machine below; CANCELED and COMPLETED are terminal.
//
//	PENDING   -> CONFIRMED (renter confirms)
//	PENDING   -> CANCELED  (renter cancels, or the sweeper voids a lapsed one)
//	CONFIRMED -> CANCELED  (renter cancels)
//	CONFIRMED -> COMPLETED (sweeper, once the booked window has passed)
const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCanceled  ReservationStatus = "CANCELED"
	StatusCompleted ReservationStatus = "COMPLETED"
)

// Terminal reports whether no further transitions are permitted out of s.
func (s ReservationStatus) Terminal() bool {
	return s == StatusCanceled || s == StatusCompleted
}

// Reservation records a renter's booking of a lease for the half-open
// interval [StartsAt, EndsAt). The total price is computed once at
// creation and never changes afterwards; cancellation is a status
// change, never a row deletion. All timestamps are UTC.
//
// Fields:
//  ID         – primary key identifier.
//  LeaseID    – lease being reserved; immutable after creation.
//  RenterID   – user who booked; immutable after creation.
//  StartsAt   – beginning of the booked interval (inclusive).
//  EndsAt     – end of the booked interval (exclusive; strictly after StartsAt).
//  Status     – current lifecycle state.
//  TotalCents – total price in cents, fixed at creation.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – bumped on every status change.
type Reservation struct {
	ID         uint64            // reservations.id
	LeaseID    uint64            // reservations.lease_id
	RenterID   uint64            // reservations.renter_id
	StartsAt   time.Time         // reservations.starts_at
	EndsAt     time.Time         // reservations.ends_at
	Status     ReservationStatus // reservations.status
	TotalCents int64             // reservations.total_cents
	CreatedAt  time.Time         // reservations.created_at
	UpdatedAt  time.Time         // reservations.updated_at
}
