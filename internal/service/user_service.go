package service

import (
	"context"
	"errors"

	"github.com/iliyamo/lease-reservation/internal/model"
	"github.com/iliyamo/lease-reservation/internal/repository"
)

// UserService covers the user operations the reservation domain needs
// beyond authentication: profile lookup and guarded deletion. A user
// referenced by any reservation cannot be removed.
type UserService struct {
	users        UserStore
	reservations ReservationStore
}

// NewUserService wires a UserService.
func NewUserService(users UserStore, reservations ReservationStore) *UserService {
	if users == nil || reservations == nil {
		panic("nil store passed to NewUserService")
	}
	return &UserService{users: users, reservations: reservations}
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, id uint64) (model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, notFound("user %d", id)
		}
		return model.User{}, err
	}
	return u, nil
}

// Delete removes the actor's own account. Deleting another user's
// account is forbidden, and accounts with any reservation on record
// (regardless of status) are kept for history.
func (s *UserService) Delete(ctx context.Context, actor Actor, id uint64) error {
	if actor.ID == 0 {
		return ErrUnauthenticated
	}
	if actor.ID != id {
		return forbidden("cannot delete another user's account")
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return notFound("user %d", id)
		}
		return err
	}
	referenced, err := s.reservations.ExistsByRenter(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return businessRule("user has existing reservations")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return notFound("user %d", id)
		}
		return err
	}
	return nil
}
