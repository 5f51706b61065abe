package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/lease-reservation/internal/model"
	"github.com/iliyamo/lease-reservation/internal/queue"
	"github.com/iliyamo/lease-reservation/internal/repository"
)

// Actor identifies the authenticated user performing an operation. It
// is always passed explicitly; services never read identity from
// ambient state.
type Actor struct {
	ID   uint64
	Role string
}

// EventPublisher emits domain events after successful state changes.
// Implementations must be safe to call concurrently. Publish failures
// are logged and ignored by the services; events are best effort.
type EventPublisher interface {
	ReservationConfirmed(ctx context.Context, ev queue.ReservationConfirmedEvent) error
}

// ReservationService owns the reservation lifecycle: creation with
// availability and duration validation, renter-initiated cancel and
// confirm transitions, and reads scoped to the renter.
type ReservationService struct {
	reservations ReservationStore
	leases       LeaseStore
	users        UserStore
	events       EventPublisher   // optional; nil disables publishing
	now          func() time.Time // injected clock, UTC
}

// NewReservationService wires a ReservationService. events may be nil.
// now may be nil, in which case the wall clock is used.
func NewReservationService(reservations ReservationStore, leases LeaseStore, users UserStore, events EventPublisher, now func() time.Time) *ReservationService {
	if reservations == nil || leases == nil || users == nil {
		panic("nil store passed to NewReservationService")
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &ReservationService{
		reservations: reservations,
		leases:       leases,
		users:        users,
		events:       events,
		now:          now,
	}
}

// Create validates and books a reservation of the given lease for
// [start, end), priced at the lease's hourly rate times the whole-hour
// duration. The reservation is persisted as PENDING. The availability
// check and the insert run atomically in the store, so concurrent
// bookings of overlapping intervals cannot both succeed.
func (s *ReservationService) Create(ctx context.Context, actor Actor, leaseID uint64, start, end time.Time) (model.Reservation, error) {
	if actor.ID == 0 {
		return model.Reservation{}, ErrUnauthenticated
	}
	if start.IsZero() || end.IsZero() {
		return model.Reservation{}, businessRule("start and end dates are required")
	}
	if !end.After(start) {
		return model.Reservation{}, businessRule("end date must be after start date")
	}
	if start.Before(s.now()) {
		return model.Reservation{}, businessRule("start date is in the past")
	}

	lease, err := s.leases.GetByID(ctx, leaseID)
	if err != nil {
		if errors.Is(err, repository.ErrLeaseNotFound) {
			return model.Reservation{}, notFound("lease %d", leaseID)
		}
		return model.Reservation{}, err
	}
	if _, err := s.users.GetByID(ctx, actor.ID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.Reservation{}, notFound("user %d", actor.ID)
		}
		return model.Reservation{}, err
	}

	// Whole hours; partial hours are truncated, matching the billing
	// granularity of the catalog. Exactly min or max is accepted.
	hours := int64(end.Sub(start) / time.Hour)
	if hours < lease.MinHours {
		return model.Reservation{}, businessRule("reservation is below the minimum of %d hours", lease.MinHours)
	}
	if hours > lease.MaxHours {
		return model.Reservation{}, businessRule("reservation exceeds the maximum of %d hours", lease.MaxHours)
	}

	res := model.Reservation{
		LeaseID:    lease.ID,
		RenterID:   actor.ID,
		StartsAt:   start.UTC(),
		EndsAt:     end.UTC(),
		Status:     model.StatusPending,
		TotalCents: lease.HourlyRateCents * hours,
	}
	if err := s.reservations.CreateIfFree(ctx, &res); err != nil {
		switch {
		case errors.Is(err, repository.ErrLeaseUnavailable):
			return model.Reservation{}, businessRule("lease is not available for the selected period")
		case errors.Is(err, repository.ErrLeaseNotFound):
			return model.Reservation{}, notFound("lease %d", leaseID)
		}
		return model.Reservation{}, err
	}
	return res, nil
}

// Cancel transitions a reservation to CANCELED. Only the original
// renter may cancel, and CANCELED/COMPLETED are absorbing.
func (s *ReservationService) Cancel(ctx context.Context, actor Actor, id uint64) (model.Reservation, error) {
	res, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if res.Status.Terminal() {
		return model.Reservation{}, businessRule("reservation cannot be canceled")
	}
	if err := s.reservations.UpdateStatus(ctx, id, model.StatusCanceled); err != nil {
		return model.Reservation{}, err
	}
	res.Status = model.StatusCanceled
	res.UpdatedAt = s.now()
	return res, nil
}

// Confirm transitions a PENDING reservation to CONFIRMED and publishes
// a reservation.confirmed event. Confirming from any other state fails:
// CONFIRMED is already final for this action and CANCELED/COMPLETED are
// absorbing.
func (s *ReservationService) Confirm(ctx context.Context, actor Actor, id uint64) (model.Reservation, error) {
	res, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if res.Status != model.StatusPending {
		return model.Reservation{}, businessRule("reservation cannot be confirmed")
	}
	if err := s.reservations.UpdateStatus(ctx, id, model.StatusConfirmed); err != nil {
		return model.Reservation{}, err
	}
	res.Status = model.StatusConfirmed
	res.UpdatedAt = s.now()
	s.publishConfirmed(ctx, res)
	return res, nil
}

// Get returns a reservation visible to the actor (renters see only
// their own bookings).
func (s *ReservationService) Get(ctx context.Context, actor Actor, id uint64) (model.Reservation, error) {
	return s.loadOwned(ctx, actor, id)
}

// ListMine returns all reservations booked by the actor, most recent
// start time first.
func (s *ReservationService) ListMine(ctx context.Context, actor Actor) ([]model.Reservation, error) {
	if actor.ID == 0 {
		return nil, ErrUnauthenticated
	}
	return s.reservations.ListByRenter(ctx, actor.ID)
}

// loadOwned fetches a reservation and enforces the ownership check
// shared by Get, Cancel and Confirm.
func (s *ReservationService) loadOwned(ctx context.Context, actor Actor, id uint64) (model.Reservation, error) {
	if actor.ID == 0 {
		return model.Reservation{}, ErrUnauthenticated
	}
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return model.Reservation{}, notFound("reservation %d", id)
		}
		return model.Reservation{}, err
	}
	if res.RenterID != actor.ID {
		return model.Reservation{}, forbidden("reservation %d belongs to another user", id)
	}
	return res, nil
}

// publishConfirmed emits the confirmation event. Failures are logged
// and ignored; the state change has already been committed.
func (s *ReservationService) publishConfirmed(ctx context.Context, res model.Reservation) {
	if s.events == nil {
		return
	}
	leaseName := ""
	if lease, err := s.leases.GetByID(ctx, res.LeaseID); err == nil {
		leaseName = lease.Name
	}
	ev := queue.ReservationConfirmedEvent{
		EventID:       uuid.NewString(),
		ReservationID: res.ID,
		LeaseID:       res.LeaseID,
		LeaseName:     leaseName,
		RenterID:      res.RenterID,
		StartsAt:      res.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:        res.EndsAt.UTC().Format(time.RFC3339),
		TotalCents:    res.TotalCents,
		ConfirmedAt:   s.now().Format(time.RFC3339),
	}
	if err := s.events.ReservationConfirmed(ctx, ev); err != nil {
		log.Printf("reservation-service: publish confirmed event failed: %v", err)
	}
}
