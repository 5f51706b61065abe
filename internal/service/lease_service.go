package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/lease-reservation/internal/model"
	"github.com/iliyamo/lease-reservation/internal/repository"
)

// LeaseInput carries the writable fields of a lease for create and
// update operations. Validation happens in the service, not in the
// transport layer.
type LeaseInput struct {
	Name            string
	HourlyRateCents int64
	MinHours        int64
	MaxHours        int64
}

// LeaseService manages the lease catalog and answers availability
// queries over it.
type LeaseService struct {
	leases       LeaseStore
	reservations ReservationStore
}

// NewLeaseService wires a LeaseService.
func NewLeaseService(leases LeaseStore, reservations ReservationStore) *LeaseService {
	if leases == nil || reservations == nil {
		panic("nil store passed to NewLeaseService")
	}
	return &LeaseService{leases: leases, reservations: reservations}
}

// validate checks the invariants shared by Create and Update.
func (s *LeaseService) validate(in LeaseInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return businessRule("lease name is required")
	}
	if in.HourlyRateCents <= 0 {
		return businessRule("hourly rate must be positive")
	}
	if in.MinHours <= 0 || in.MaxHours <= 0 {
		return businessRule("duration bounds must be positive")
	}
	if in.MinHours > in.MaxHours {
		return businessRule("minimum duration %d exceeds maximum %d", in.MinHours, in.MaxHours)
	}
	return nil
}

// Create adds a lease to the catalog. Duplicate names are rejected.
func (s *LeaseService) Create(ctx context.Context, in LeaseInput) (model.Lease, error) {
	if err := s.validate(in); err != nil {
		return model.Lease{}, err
	}
	l := model.Lease{
		Name:            strings.TrimSpace(in.Name),
		HourlyRateCents: in.HourlyRateCents,
		MinHours:        in.MinHours,
		MaxHours:        in.MaxHours,
	}
	if err := s.leases.Create(ctx, &l); err != nil {
		if errors.Is(err, repository.ErrLeaseNameTaken) {
			return model.Lease{}, businessRule("lease with name %q already exists", l.Name)
		}
		return model.Lease{}, err
	}
	return l, nil
}

// Update rewrites a lease's fields with the same validation as Create,
// excluding the lease's own row from the duplicate-name check.
func (s *LeaseService) Update(ctx context.Context, id uint64, in LeaseInput) (model.Lease, error) {
	if err := s.validate(in); err != nil {
		return model.Lease{}, err
	}
	name := strings.TrimSpace(in.Name)
	if existing, err := s.leases.FindByName(ctx, name); err == nil && existing.ID != id {
		return model.Lease{}, businessRule("lease with name %q already exists", name)
	} else if err != nil && !errors.Is(err, repository.ErrLeaseNotFound) {
		return model.Lease{}, err
	}
	l := model.Lease{
		ID:              id,
		Name:            name,
		HourlyRateCents: in.HourlyRateCents,
		MinHours:        in.MinHours,
		MaxHours:        in.MaxHours,
	}
	if err := s.leases.Update(ctx, &l); err != nil {
		switch {
		case errors.Is(err, repository.ErrLeaseNotFound):
			return model.Lease{}, notFound("lease %d", id)
		case errors.Is(err, repository.ErrLeaseNameTaken):
			return model.Lease{}, businessRule("lease with name %q already exists", name)
		}
		return model.Lease{}, err
	}
	return l, nil
}

// Delete removes a lease. Leases referenced by any reservation, of any
// status, cannot be deleted.
func (s *LeaseService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.leases.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrLeaseNotFound) {
			return notFound("lease %d", id)
		}
		return err
	}
	referenced, err := s.reservations.ExistsByLease(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return businessRule("lease has associated reservations")
	}
	if err := s.leases.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrLeaseNotFound) {
			return notFound("lease %d", id)
		}
		return err
	}
	return nil
}

// Get returns a single lease by id.
func (s *LeaseService) Get(ctx context.Context, id uint64) (model.Lease, error) {
	l, err := s.leases.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLeaseNotFound) {
			return model.Lease{}, notFound("lease %d", id)
		}
		return model.Lease{}, err
	}
	return l, nil
}

// List returns the whole catalog.
func (s *LeaseService) List(ctx context.Context) ([]model.Lease, error) {
	return s.leases.List(ctx)
}

// ListAvailable returns the leases with no conflicting reservation in
// [start, end). It uses the same overlap predicate as booking: only
// non-canceled reservations block, and touching endpoints do not
// conflict.
func (s *LeaseService) ListAvailable(ctx context.Context, start, end time.Time) ([]model.Lease, error) {
	if start.IsZero() || end.IsZero() {
		return nil, businessRule("start and end dates are required")
	}
	if !end.After(start) {
		return nil, businessRule("end date must be after start date")
	}
	busy, err := s.reservations.ConflictingLeaseIDs(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return s.leases.ListExcluding(ctx, busy)
}
