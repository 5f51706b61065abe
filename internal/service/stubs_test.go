package service

import (
	"context"
	"sort"
	"time"

	"github.com/iliyamo/lease-reservation/internal/model"
	"github.com/iliyamo/lease-reservation/internal/queue"
	"github.com/iliyamo/lease-reservation/internal/repository"
)

// memStore is an in-memory stand-in for the repository package. It
// honors the same overlap predicate and sentinel errors as the real
// store so service tests exercise the actual booking semantics.
type memStore struct {
	nextID       uint64
	leases       map[uint64]model.Lease
	reservations map[uint64]model.Reservation
	users        map[uint64]model.User
}

func newMemStore() *memStore {
	return &memStore{
		leases:       map[uint64]model.Lease{},
		reservations: map[uint64]model.Reservation{},
		users:        map[uint64]model.User{},
	}
}

func (m *memStore) id() uint64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addLease(name string, rate, min, max int64) model.Lease {
	l := model.Lease{ID: m.id(), Name: name, HourlyRateCents: rate, MinHours: min, MaxHours: max}
	m.leases[l.ID] = l
	return l
}

func (m *memStore) addUser(email string) model.User {
	u := model.User{ID: m.id(), Email: email, Role: "CUSTOMER", IsActive: true}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addReservation(leaseID, renterID uint64, start, end time.Time, status model.ReservationStatus) model.Reservation {
	r := model.Reservation{ID: m.id(), LeaseID: leaseID, RenterID: renterID, StartsAt: start, EndsAt: end, Status: status}
	m.reservations[r.ID] = r
	return r
}

// ----- LeaseStore -----

func (m *memStore) Create(ctx context.Context, l *model.Lease) error {
	for _, existing := range m.leases {
		if existing.Name == l.Name {
			return repository.ErrLeaseNameTaken
		}
	}
	l.ID = m.id()
	m.leases[l.ID] = *l
	return nil
}

func (m *memStore) Update(ctx context.Context, l *model.Lease) error {
	if _, ok := m.leases[l.ID]; !ok {
		return repository.ErrLeaseNotFound
	}
	for _, existing := range m.leases {
		if existing.Name == l.Name && existing.ID != l.ID {
			return repository.ErrLeaseNameTaken
		}
	}
	m.leases[l.ID] = *l
	return nil
}

func (m *memStore) Delete(ctx context.Context, id uint64) error {
	if _, ok := m.leases[id]; !ok {
		return repository.ErrLeaseNotFound
	}
	delete(m.leases, id)
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id uint64) (model.Lease, error) {
	l, ok := m.leases[id]
	if !ok {
		return model.Lease{}, repository.ErrLeaseNotFound
	}
	return l, nil
}

func (m *memStore) FindByName(ctx context.Context, name string) (model.Lease, error) {
	for _, l := range m.leases {
		if l.Name == name {
			return l, nil
		}
	}
	return model.Lease{}, repository.ErrLeaseNotFound
}

func (m *memStore) List(ctx context.Context) ([]model.Lease, error) {
	return m.ListExcluding(ctx, nil)
}

func (m *memStore) ListExcluding(ctx context.Context, ids []uint64) ([]model.Lease, error) {
	skip := map[uint64]bool{}
	for _, id := range ids {
		skip[id] = true
	}
	var out []model.Lease
	for _, l := range m.leases {
		if !skip[l.ID] {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ----- ReservationStore -----

func overlaps(r model.Reservation, start, end time.Time) bool {
	return r.Status != model.StatusCanceled && r.StartsAt.Before(end) && r.EndsAt.After(start)
}

func (m *memStore) CreateIfFree(ctx context.Context, r *model.Reservation) error {
	if _, ok := m.leases[r.LeaseID]; !ok {
		return repository.ErrLeaseNotFound
	}
	for _, existing := range m.reservations {
		if existing.LeaseID == r.LeaseID && overlaps(existing, r.StartsAt, r.EndsAt) {
			return repository.ErrLeaseUnavailable
		}
	}
	r.ID = m.id()
	m.reservations[r.ID] = *r
	return nil
}

func (m *memStore) reservationByID(id uint64) (model.Reservation, error) {
	r, ok := m.reservations[id]
	if !ok {
		return model.Reservation{}, repository.ErrReservationNotFound
	}
	return r, nil
}

func (m *memStore) UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) error {
	r, ok := m.reservations[id]
	if !ok {
		return repository.ErrReservationNotFound
	}
	r.Status = status
	m.reservations[id] = r
	return nil
}

func (m *memStore) ListByRenter(ctx context.Context, renterID uint64) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range m.reservations {
		if r.RenterID == renterID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.After(out[j].StartsAt) })
	return out, nil
}

func (m *memStore) ExistsByLease(ctx context.Context, leaseID uint64) (bool, error) {
	for _, r := range m.reservations {
		if r.LeaseID == leaseID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ExistsByRenter(ctx context.Context, renterID uint64) (bool, error) {
	for _, r := range m.reservations {
		if r.RenterID == renterID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ConflictingLeaseIDs(ctx context.Context, start, end time.Time) ([]uint64, error) {
	seen := map[uint64]bool{}
	var out []uint64
	for _, r := range m.reservations {
		if overlaps(r, start, end) && !seen[r.LeaseID] {
			seen[r.LeaseID] = true
			out = append(out, r.LeaseID)
		}
	}
	return out, nil
}

func (m *memStore) ExpireBatch(ctx context.Context, from, to model.ReservationStatus, before time.Time, limit int) (int64, error) {
	var n int64
	for id, r := range m.reservations {
		if n >= int64(limit) {
			break
		}
		if r.Status == from && r.EndsAt.Before(before) {
			r.Status = to
			m.reservations[id] = r
			n++
		}
	}
	return n, nil
}

// ----- UserStore -----

func (m *memStore) userByID(id uint64) (model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memStore) deleteUser(id uint64) error {
	if _, ok := m.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

// reservationStore and userStore adapt memStore to the narrower store
// interfaces; both GetByID methods cannot live on the same receiver.
type reservationStore struct{ *memStore }

func (s reservationStore) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	return s.memStore.reservationByID(id)
}

type userStore struct{ *memStore }

func (s userStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return s.memStore.userByID(id)
}

func (s userStore) Delete(ctx context.Context, id uint64) error {
	return s.memStore.deleteUser(id)
}

// capturingPublisher records confirmation events for assertions.
type capturingPublisher struct {
	events []queue.ReservationConfirmedEvent
	err    error
}

func (p *capturingPublisher) ReservationConfirmed(ctx context.Context, ev queue.ReservationConfirmedEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
