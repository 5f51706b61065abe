package service

import (
	"context"
	"time"

	"github.com/iliyamo/lease-reservation/internal/model"
)

// The store interfaces below are satisfied by the repository package.
// Services depend on them rather than on concrete repos so tests can
// substitute in-memory stubs and fixed clocks.

// LeaseStore is the persistence contract for the lease catalog.
type LeaseStore interface {
	Create(ctx context.Context, l *model.Lease) error
	Update(ctx context.Context, l *model.Lease) error
	Delete(ctx context.Context, id uint64) error
	GetByID(ctx context.Context, id uint64) (model.Lease, error)
	FindByName(ctx context.Context, name string) (model.Lease, error)
	List(ctx context.Context) ([]model.Lease, error)
	ListExcluding(ctx context.Context, ids []uint64) ([]model.Lease, error)
}

// ReservationStore is the persistence contract for reservations.
// CreateIfFree must perform the overlap check and the insert atomically
// (see repository.ReservationRepo); the remaining methods are plain
// reads and status writes.
type ReservationStore interface {
	CreateIfFree(ctx context.Context, r *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (model.Reservation, error)
	UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) error
	ListByRenter(ctx context.Context, renterID uint64) ([]model.Reservation, error)
	ExistsByLease(ctx context.Context, leaseID uint64) (bool, error)
	ExistsByRenter(ctx context.Context, renterID uint64) (bool, error)
	ConflictingLeaseIDs(ctx context.Context, start, end time.Time) ([]uint64, error)
	ExpireBatch(ctx context.Context, from, to model.ReservationStatus, before time.Time, limit int) (int64, error)
}

// UserStore is the subset of user persistence the services need.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
	Delete(ctx context.Context, id uint64) error
}
