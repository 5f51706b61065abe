package service

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/lease-reservation/internal/model"
)

// Sweeper is the background process that expires stale reservations:
// a PENDING reservation whose window has lapsed is auto-voided, and a
// CONFIRMED one whose window has passed is considered fulfilled.
//
//	PENDING,   ends_at < now -> CANCELED
//	CONFIRMED, ends_at < now -> COMPLETED
//
// Each tick rewrites at most batch rows per status so the sweep never
// holds locks long enough to starve concurrent bookings. Running with
// no eligible rows is a no-op, so the sweep is idempotent.
type Sweeper struct {
	reservations ReservationStore
	interval     time.Duration
	batch        int
	now          func() time.Time
}

// NewSweeper constructs a Sweeper. interval defaults to 5 minutes and
// batch to 500 when non-positive; now may be nil for the wall clock.
func NewSweeper(reservations ReservationStore, interval time.Duration, batch int, now func() time.Time) *Sweeper {
	if reservations == nil {
		panic("nil store passed to NewSweeper")
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if batch <= 0 {
		batch = 500
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Sweeper{reservations: reservations, interval: interval, batch: batch, now: now}
}

// SweepOnce performs a single expiration pass and returns the number of
// reservations canceled and completed. It is the exact function the
// ticker loop runs, so tests can drive it directly with a fixed clock.
func (s *Sweeper) SweepOnce(ctx context.Context) (canceled, completed int64, err error) {
	now := s.now()
	canceled, err = s.reservations.ExpireBatch(ctx, model.StatusPending, model.StatusCanceled, now, s.batch)
	if err != nil {
		return canceled, 0, err
	}
	completed, err = s.reservations.ExpireBatch(ctx, model.StatusConfirmed, model.StatusCompleted, now, s.batch)
	return canceled, completed, err
}

// Run executes SweepOnce on a fixed interval until ctx is canceled.
// It is started once at service startup and owns its own timer; errors
// are logged and the loop keeps running.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	log.Printf("sweeper: running every %s (batch %d)", s.interval, s.batch)
	for {
		select {
		case <-ctx.Done():
			log.Printf("sweeper: stopped: %v", ctx.Err())
			return
		case <-ticker.C:
			canceled, completed, err := s.SweepOnce(ctx)
			if err != nil {
				log.Printf("sweeper: sweep failed: %v", err)
				continue
			}
			if canceled > 0 || completed > 0 {
				log.Printf("sweeper: canceled %d pending, completed %d confirmed", canceled, completed)
			}
		}
	}
}
