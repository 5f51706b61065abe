package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/lease-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations. Reservations
// are never physically deleted; lifecycle changes are status updates.
// All timestamps are stored in UTC (the connection uses parseTime=true
// with loc=UTC).
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need transaction control.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, lease_id, renter_id, starts_at, ends_at, status, total_cents, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }, res *model.Reservation) error {
	return row.Scan(&res.ID, &res.LeaseID, &res.RenterID, &res.StartsAt, &res.EndsAt,
		&res.Status, &res.TotalCents, &res.CreatedAt, &res.UpdatedAt)
}

// overlapPredicate is the single overlap test used everywhere in the
// repository: a reservation blocks [start, end) iff it is not CANCELED
// and its own half-open interval intersects it strictly. Back-to-back
// bookings (one ending exactly when the next starts) do not conflict.
const overlapPredicate = `status <> 'CANCELED' AND starts_at < ? AND ends_at > ?`

// CreateIfFree inserts a new PENDING reservation only when no active
// reservation overlaps [StartsAt, EndsAt) for the same lease. The
// check and the insert run in one transaction holding a row lock on
// the lease, so two concurrent bookings of the same interval cannot
// both pass the availability check. On success the generated id and
// DB-default fields are populated on res. It returns ErrLeaseNotFound
// when the lease row is missing and ErrLeaseUnavailable on overlap.
func (r *ReservationRepo) CreateIfFree(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the lease row: serializes availability checks per lease while
	// leaving other leases unaffected.
	var leaseID uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM leases WHERE id = ? FOR UPDATE`, res.LeaseID).Scan(&leaseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrLeaseNotFound
		}
		return err
	}

	var clash int
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM reservations WHERE lease_id = ? AND `+overlapPredicate+`)`,
		res.LeaseID, res.EndsAt, res.StartsAt).Scan(&clash)
	if err != nil {
		return err
	}
	if clash != 0 {
		return ErrLeaseUnavailable
	}

	const ins = `INSERT INTO reservations (lease_id, renter_id, starts_at, ends_at, status, total_cents)
                 VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins,
		res.LeaseID, res.RenterID, res.StartsAt, res.EndsAt, res.Status, res.TotalCents)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	const sel = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
	if err := scanReservation(tx.QueryRowContext(ctx, sel, res.ID), res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID retrieves a reservation by id, returning ErrReservationNotFound
// when absent.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
	var res model.Reservation
	if err := scanReservation(r.db.QueryRowContext(ctx, q, id), &res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, ErrReservationNotFound
		}
		return model.Reservation{}, err
	}
	return res, nil
}

// UpdateStatus sets a reservation's status and bumps updated_at. It
// returns ErrReservationNotFound when no row matches the id.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) error {
	const q = `UPDATE reservations SET status = ?, updated_at = NOW() WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM reservations WHERE id = ? LIMIT 1`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReservationNotFound
		}
		return err
	}
	return nil
}

// ListByRenter returns all reservations booked by the given user,
// ordered by start time descending (upcoming and recent first). When
// none exist an empty slice is returned.
func (r *ReservationRepo) ListByRenter(ctx context.Context, renterID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE renter_id = ? ORDER BY starts_at DESC`
	rows, err := r.db.QueryContext(ctx, q, renterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// ExistsByLease reports whether any reservation of any status
// references the given lease. Used to block lease deletion.
func (r *ReservationRepo) ExistsByLease(ctx context.Context, leaseID uint64) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM reservations WHERE lease_id = ?)`, leaseID).Scan(&exists)
	return exists != 0, err
}

// ExistsByRenter reports whether any reservation of any status
// references the given user. Used to block user deletion.
func (r *ReservationRepo) ExistsByRenter(ctx context.Context, renterID uint64) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM reservations WHERE renter_id = ?)`, renterID).Scan(&exists)
	return exists != 0, err
}

// ConflictingLeaseIDs returns the distinct ids of leases that have at
// least one non-canceled reservation overlapping [start, end). The
// predicate is identical to the one used inside CreateIfFree.
func (r *ReservationRepo) ConflictingLeaseIDs(ctx context.Context, start, end time.Time) ([]uint64, error) {
	const q = `SELECT DISTINCT lease_id FROM reservations WHERE ` + overlapPredicate
	rows, err := r.db.QueryContext(ctx, q, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ExpireBatch transitions up to limit reservations from one status to
// another when their booked window ended before the given instant. The
// ids are read first and rewritten in a single bulk UPDATE inside one
// transaction, keeping the lock footprint small and bounded per call.
// It returns the number of rows updated; zero eligible rows is a no-op.
func (r *ReservationRepo) ExpireBatch(ctx context.Context, from, to model.ReservationStatus, before time.Time, limit int) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const sel = `SELECT id FROM reservations WHERE status = ? AND ends_at < ? LIMIT ?`
	rows, err := tx.QueryContext(ctx, sel, from, before, limit)
	if err != nil {
		return 0, err
	}
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, to)
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `UPDATE reservations SET status = ?, updated_at = NOW() WHERE id IN (` +
		strings.Join(placeholders, ",") + `)`
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return n, nil
}
