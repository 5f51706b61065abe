package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/lease-reservation/internal/model"
)

func TestUserDeleteGuards(t *testing.T) {
	store := newMemStore()
	svc := NewUserService(userStore{store}, reservationStore{store})
	lease := store.addLease("room A", 1000, 1, 4)
	withHistory := store.addUser("history@example.com")
	clean := store.addUser("clean@example.com")
	store.addReservation(lease.ID, withHistory.ID, testNow, testNow.Add(2*time.Hour), model.StatusCompleted)

	if err := svc.Delete(context.Background(), Actor{}, clean.ID); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if err := svc.Delete(context.Background(), Actor{ID: clean.ID}, withHistory.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden on foreign delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), Actor{ID: withHistory.ID}, withHistory.ID); !errors.Is(err, ErrBusinessRule) {
		t.Fatalf("expected reservation guard, got %v", err)
	}
	if err := svc.Delete(context.Background(), Actor{ID: clean.ID}, clean.ID); err != nil {
		t.Fatalf("self delete failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), clean.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected user gone, got %v", err)
	}
}
