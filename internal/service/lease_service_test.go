package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/lease-reservation/internal/model"
)

func newLeaseFixture(t *testing.T) (*LeaseService, *memStore) {
	t.Helper()
	store := newMemStore()
	return NewLeaseService(store, reservationStore{store}), store
}

func TestLeaseCreateValidation(t *testing.T) {
	svc, _ := newLeaseFixture(t)

	cases := []struct {
		name string
		in   LeaseInput
	}{
		{"empty name", LeaseInput{Name: "  ", HourlyRateCents: 1000, MinHours: 1, MaxHours: 4}},
		{"zero rate", LeaseInput{Name: "room", HourlyRateCents: 0, MinHours: 1, MaxHours: 4}},
		{"negative rate", LeaseInput{Name: "room", HourlyRateCents: -5, MinHours: 1, MaxHours: 4}},
		{"zero min hours", LeaseInput{Name: "room", HourlyRateCents: 1000, MinHours: 0, MaxHours: 4}},
		{"zero max hours", LeaseInput{Name: "room", HourlyRateCents: 1000, MinHours: 1, MaxHours: 0}},
		{"min above max", LeaseInput{Name: "room", HourlyRateCents: 1000, MinHours: 5, MaxHours: 4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.in); !errors.Is(err, ErrBusinessRule) {
				t.Fatalf("expected business rule error, got %v", err)
			}
		})
	}
}

func TestLeaseCreateRejectsDuplicateName(t *testing.T) {
	svc, _ := newLeaseFixture(t)
	in := LeaseInput{Name: "meeting room A", HourlyRateCents: 1000, MinHours: 1, MaxHours: 4}

	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrBusinessRule) {
		t.Fatalf("expected duplicate name rejection, got %v", err)
	}
}

func TestLeaseUpdate(t *testing.T) {
	svc, store := newLeaseFixture(t)
	a := store.addLease("room A", 1000, 1, 4)
	store.addLease("room B", 1000, 1, 4)

	// Renaming onto another lease's name is rejected; keeping the own
	// name is fine.
	if _, err := svc.Update(context.Background(), a.ID, LeaseInput{Name: "room B", HourlyRateCents: 1000, MinHours: 1, MaxHours: 4}); !errors.Is(err, ErrBusinessRule) {
		t.Fatalf("expected duplicate name rejection, got %v", err)
	}
	got, err := svc.Update(context.Background(), a.ID, LeaseInput{Name: "room A", HourlyRateCents: 2000, MinHours: 2, MaxHours: 6})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got.HourlyRateCents != 2000 || got.MinHours != 2 || got.MaxHours != 6 {
		t.Fatalf("update did not apply: %+v", got)
	}

	if _, err := svc.Update(context.Background(), 999, LeaseInput{Name: "room C", HourlyRateCents: 1000, MinHours: 1, MaxHours: 4}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLeaseDeleteGuard(t *testing.T) {
	svc, store := newLeaseFixture(t)
	busy := store.addLease("room A", 1000, 1, 4)
	free := store.addLease("room B", 1000, 1, 4)
	renter := store.addUser("renter@example.com")
	store.addReservation(busy.ID, renter.ID, testNow, testNow.Add(2*time.Hour), model.StatusCanceled)

	// Even canceled reservations keep the lease undeletable.
	if err := svc.Delete(context.Background(), busy.ID); !errors.Is(err, ErrBusinessRule) {
		t.Fatalf("expected delete guard, got %v", err)
	}
	if err := svc.Delete(context.Background(), free.ID); err != nil {
		t.Fatalf("delete of unreferenced lease failed: %v", err)
	}
	if err := svc.Delete(context.Background(), free.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestLeaseListAvailable(t *testing.T) {
	svc, store := newLeaseFixture(t)
	booked := store.addLease("room A", 1000, 1, 4)
	open := store.addLease("room B", 1000, 1, 4)
	canceledOnly := store.addLease("room C", 1000, 1, 4)
	renter := store.addUser("renter@example.com")

	store.addReservation(booked.ID, renter.ID, at(2), at(6), model.StatusConfirmed)
	store.addReservation(canceledOnly.ID, renter.ID, at(2), at(6), model.StatusCanceled)

	got, err := svc.ListAvailable(context.Background(), at(3), at(5))
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	ids := map[uint64]bool{}
	for _, l := range got {
		ids[l.ID] = true
	}
	if ids[booked.ID] {
		t.Fatalf("booked lease must not be listed as available")
	}
	if !ids[open.ID] || !ids[canceledOnly.ID] {
		t.Fatalf("expected leases %d and %d to be available, got %v", open.ID, canceledOnly.ID, got)
	}

	// A window touching the booking's end does not conflict.
	got, err = svc.ListAvailable(context.Background(), at(6), at(8))
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	ids = map[uint64]bool{}
	for _, l := range got {
		ids[l.ID] = true
	}
	if !ids[booked.ID] {
		t.Fatalf("back-to-back window must leave the lease available")
	}

	if _, err := svc.ListAvailable(context.Background(), at(5), at(3)); !errors.Is(err, ErrBusinessRule) {
		t.Fatalf("expected inverted window rejection, got %v", err)
	}
	if _, err := svc.ListAvailable(context.Background(), time.Time{}, at(3)); !errors.Is(err, ErrBusinessRule) {
		t.Fatalf("expected missing dates rejection, got %v", err)
	}
}
