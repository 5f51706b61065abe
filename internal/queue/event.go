// Package queue defines the message payloads exchanged over the broker
// plus the publisher and consumer for them.
package queue

// ReservationConfirmedEvent is published when a renter confirms a
// reservation. It carries enough information for downstream consumers
// to log or notify without querying the primary database. EventID is a
// UUID assigned at publish time so consumers can deduplicate.
type ReservationConfirmedEvent struct {
	EventID       string `json:"event_id"`
	ReservationID uint64 `json:"reservation_id"`
	LeaseID       uint64 `json:"lease_id"`
	LeaseName     string `json:"lease_name"`
	RenterID      uint64 `json:"renter_id"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at"`
	TotalCents    int64  `json:"total_cents"`
	ConfirmedAt   string `json:"confirmed_at"`
}
