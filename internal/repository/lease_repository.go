package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/lease-reservation/internal/model"
)

// LeaseRepo manages persistence for the lease catalog. All methods
// operate on the `leases` table; duplicate-name detection relies on the
// unique index on leases.name so that concurrent creates cannot slip a
// duplicate past an application-level check.
type LeaseRepo struct {
	db *sql.DB
}

// NewLeaseRepo constructs a LeaseRepo with the given DB handle.
func NewLeaseRepo(db *sql.DB) *LeaseRepo { return &LeaseRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *LeaseRepo) DB() *sql.DB { return r.db }

const leaseCols = `id, name, hourly_rate_cents, min_hours, max_hours, created_at, updated_at`

func scanLease(row interface{ Scan(...any) error }, l *model.Lease) error {
	return row.Scan(&l.ID, &l.Name, &l.HourlyRateCents, &l.MinHours, &l.MaxHours, &l.CreatedAt, &l.UpdatedAt)
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error (1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// Create inserts a new lease and populates the generated id and the
// DB-default timestamps on the given struct. It returns
// ErrLeaseNameTaken when the name is already in use.
func (r *LeaseRepo) Create(ctx context.Context, l *model.Lease) error {
	const q = `INSERT INTO leases (name, hourly_rate_cents, min_hours, max_hours) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, l.Name, l.HourlyRateCents, l.MinHours, l.MaxHours)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrLeaseNameTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	// Query back the full row to populate created_at/updated_at defaults.
	const sel = `SELECT ` + leaseCols + ` FROM leases WHERE id = ?`
	return scanLease(r.db.QueryRowContext(ctx, sel, l.ID), l)
}

// Update rewrites the mutable fields of a lease. It returns
// ErrLeaseNotFound when no row matches and ErrLeaseNameTaken when the
// new name collides with another lease.
func (r *LeaseRepo) Update(ctx context.Context, l *model.Lease) error {
	const q = `UPDATE leases
               SET name = ?, hourly_rate_cents = ?, min_hours = ?, max_hours = ?, updated_at = NOW()
               WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, l.Name, l.HourlyRateCents, l.MinHours, l.MaxHours, l.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrLeaseNameTaken
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the row is missing or the values are identical. Confirm
		// existence so callers get a precise NotFound.
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM leases WHERE id = ? LIMIT 1`, l.ID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrLeaseNotFound
		}
		if err != nil {
			return err
		}
	}
	const sel = `SELECT ` + leaseCols + ` FROM leases WHERE id = ?`
	return scanLease(r.db.QueryRowContext(ctx, sel, l.ID), l)
}

// Delete removes a lease row. It returns ErrLeaseNotFound when no row
// matches. Referential checks (existing reservations) are the service
// layer's responsibility.
func (r *LeaseRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leases WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLeaseNotFound
	}
	return nil
}

// GetByID retrieves a lease by id, returning ErrLeaseNotFound when absent.
func (r *LeaseRepo) GetByID(ctx context.Context, id uint64) (model.Lease, error) {
	const q = `SELECT ` + leaseCols + ` FROM leases WHERE id = ?`
	var l model.Lease
	if err := scanLease(r.db.QueryRowContext(ctx, q, id), &l); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Lease{}, ErrLeaseNotFound
		}
		return model.Lease{}, err
	}
	return l, nil
}

// FindByName retrieves a lease by exact name, returning ErrLeaseNotFound
// when the name is unused.
func (r *LeaseRepo) FindByName(ctx context.Context, name string) (model.Lease, error) {
	const q = `SELECT ` + leaseCols + ` FROM leases WHERE name = ? LIMIT 1`
	var l model.Lease
	if err := scanLease(r.db.QueryRowContext(ctx, q, name), &l); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Lease{}, ErrLeaseNotFound
		}
		return model.Lease{}, err
	}
	return l, nil
}

// List returns the whole catalog ordered by name.
func (r *LeaseRepo) List(ctx context.Context) ([]model.Lease, error) {
	const q = `SELECT ` + leaseCols + ` FROM leases ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Lease, 0)
	for rows.Next() {
		var l model.Lease
		if err := scanLease(rows, &l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListExcluding returns all leases whose id is not in the given set,
// ordered by name. An empty set returns the full catalog.
func (r *LeaseRepo) ListExcluding(ctx context.Context, ids []uint64) ([]model.Lease, error) {
	if len(ids) == 0 {
		return r.List(ctx)
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT ` + leaseCols + ` FROM leases WHERE id NOT IN (` +
		strings.Join(placeholders, ",") + `) ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Lease, 0)
	for rows.Next() {
		var l model.Lease
		if err := scanLease(rows, &l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
