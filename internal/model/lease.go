package model

import "time"

// Lease describes a rentable unit type offered by the platform, for
// example a meeting room or a vehicle class. Each lease carries an
// hourly rate and the duration window a renter must stay within.
// Prices are stored in integer cents so that totals are computed with
// exact arithmetic.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – unique, non-empty display name.
//  HourlyRateCents – price per hour in cents (> 0).
//  MinHours        – minimum rentable duration in whole hours (> 0).
//  MaxHours        – maximum rentable duration in whole hours (>= MinHours).
//  CreatedAt       – creation timestamp, immutable.
//  UpdatedAt       – last update timestamp.
type Lease struct {
	ID              uint64    // leases.id
	Name            string    // leases.name
	HourlyRateCents int64     // leases.hourly_rate_cents
	MinHours        int64     // leases.min_hours
	MaxHours        int64     // leases.max_hours
	CreatedAt       time.Time // leases.created_at
	UpdatedAt       time.Time // leases.updated_at
}
