package service

import (
	"context"
	"testing"
	"time"

	"github.com/iliyamo/lease-reservation/internal/model"
)

func TestSweepOnceExpiresLapsedReservations(t *testing.T) {
	store := newMemStore()
	lease := store.addLease("meeting room A", 1000, 1, 8)
	renter := store.addUser("renter@example.com")

	lapsedPending := store.addReservation(lease.ID, renter.ID, testNow.Add(-4*time.Hour), testNow.Add(-2*time.Hour), model.StatusPending)
	lapsedConfirmed := store.addReservation(lease.ID, renter.ID, testNow.Add(-8*time.Hour), testNow.Add(-6*time.Hour), model.StatusConfirmed)
	future := store.addReservation(lease.ID, renter.ID, testNow.Add(2*time.Hour), testNow.Add(4*time.Hour), model.StatusPending)
	alreadyCanceled := store.addReservation(lease.ID, renter.ID, testNow.Add(-4*time.Hour), testNow.Add(-2*time.Hour), model.StatusCanceled)

	sw := NewSweeper(reservationStore{store}, 0, 0, fixedClock(testNow))
	canceled, completed, err := sw.SweepOnce(context.Background())
	if err != nil {
		t.Fatalf("SweepOnce failed: %v", err)
	}
	if canceled != 1 || completed != 1 {
		t.Fatalf("expected 1 canceled and 1 completed, got %d and %d", canceled, completed)
	}

	if got := store.reservations[lapsedPending.ID].Status; got != model.StatusCanceled {
		t.Fatalf("lapsed pending reservation: expected CANCELED, got %s", got)
	}
	if got := store.reservations[lapsedConfirmed.ID].Status; got != model.StatusCompleted {
		t.Fatalf("lapsed confirmed reservation: expected COMPLETED, got %s", got)
	}
	if got := store.reservations[future.ID].Status; got != model.StatusPending {
		t.Fatalf("future reservation must stay PENDING, got %s", got)
	}
	if got := store.reservations[alreadyCanceled.ID].Status; got != model.StatusCanceled {
		t.Fatalf("canceled reservation must stay CANCELED, got %s", got)
	}
}

func TestSweepOnceIsIdempotent(t *testing.T) {
	store := newMemStore()
	lease := store.addLease("meeting room A", 1000, 1, 8)
	renter := store.addUser("renter@example.com")
	store.addReservation(lease.ID, renter.ID, testNow.Add(-4*time.Hour), testNow.Add(-2*time.Hour), model.StatusPending)

	sw := NewSweeper(reservationStore{store}, 0, 0, fixedClock(testNow))
	if _, _, err := sw.SweepOnce(context.Background()); err != nil {
		t.Fatalf("first sweep failed: %v", err)
	}
	canceled, completed, err := sw.SweepOnce(context.Background())
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if canceled != 0 || completed != 0 {
		t.Fatalf("second sweep must be a no-op, got %d canceled and %d completed", canceled, completed)
	}
}

func TestSweepOnceHonorsBatchLimit(t *testing.T) {
	store := newMemStore()
	lease := store.addLease("meeting room A", 1000, 1, 8)
	renter := store.addUser("renter@example.com")
	for i := 0; i < 5; i++ {
		start := testNow.Add(time.Duration(-10-2*i) * time.Hour)
		store.addReservation(lease.ID, renter.ID, start, start.Add(time.Hour), model.StatusPending)
	}

	sw := NewSweeper(reservationStore{store}, 0, 2, fixedClock(testNow))
	canceled, _, err := sw.SweepOnce(context.Background())
	if err != nil {
		t.Fatalf("SweepOnce failed: %v", err)
	}
	if canceled != 2 {
		t.Fatalf("expected the batch limit of 2, got %d", canceled)
	}

	// Remaining rows are picked up by the following ticks.
	var total int64 = canceled
	for i := 0; i < 3 && total < 5; i++ {
		n, _, err := sw.SweepOnce(context.Background())
		if err != nil {
			t.Fatalf("follow-up sweep failed: %v", err)
		}
		total += n
	}
	if total != 5 {
		t.Fatalf("expected all 5 reservations swept across ticks, got %d", total)
	}
}

func TestSweeperRunStopsOnContextCancel(t *testing.T) {
	store := newMemStore()
	sw := NewSweeper(reservationStore{store}, 10*time.Millisecond, 10, fixedClock(testNow))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sw.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after context cancellation")
	}
}
