package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/premises-rental/internal/model"
)

// LeaseRepo provides CRUD operations for leases. Creating and deleting a
// lease also flips the room's occupancy status; both writes run inside one
// transaction so the room status always reflects at most one active lease.
type LeaseRepo struct {
	db *sql.DB
}

// NewLeaseRepo returns a new LeaseRepo bound to the given database.
func NewLeaseRepo(db *sql.DB) *LeaseRepo { return &LeaseRepo{db: db} }

const leaseCols = "id, room_id, tenant_id, start_date, end_date, monthly_rent, deposit, status, created_at"

func scanLease(row interface{ Scan(...any) error }, l *model.Lease) error {
	var deposit sql.NullFloat64
	if err := row.Scan(&l.ID, &l.RoomID, &l.TenantID, &l.StartDate, &l.EndDate,
		&l.MonthlyRent, &deposit, &l.Status, &l.CreatedAt); err != nil {
		return err
	}
	if deposit.Valid {
		d := deposit.Float64
		l.Deposit = &d
	}
	return nil
}

// Create inserts a lease and marks its room occupied as one atomic unit.
// The room row is locked with FOR UPDATE before the status check, so two
// concurrent creations against the same room cannot both observe
// 'available'. Returns ErrRoomNotFound when the room does not resolve and
// ErrRoomUnavailable when its status is anything but available.
func (r *LeaseRepo) Create(ctx context.Context, l *model.Lease) error {
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

	var status string
	err = tx.QueryRowContext(ctx,
		"SELECT status FROM rooms WHERE id = ? FOR UPDATE", l.RoomID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}
	if status != model.RoomAvailable {
		return ErrRoomUnavailable
	}

	if l.Status == "" {
		l.Status = model.LeaseActive
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO leases (room_id, tenant_id, start_date, end_date, monthly_rent, deposit, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.RoomID, l.TenantID, l.StartDate, l.EndDate, l.MonthlyRent, l.Deposit, l.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)

	if _, err = tx.ExecContext(ctx,
		"UPDATE rooms SET status = ? WHERE id = ?", model.RoomOccupied, l.RoomID); err != nil {
		return err
	}

	// Read back defaults (created_at) inside the same transaction.
	if err = tx.QueryRowContext(ctx,
		"SELECT created_at FROM leases WHERE id = ?", l.ID).Scan(&l.CreatedAt); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a lease by id or returns ErrLeaseNotFound.
func (r *LeaseRepo) GetByID(ctx context.Context, id uint64) (*model.Lease, error) {
	var l model.Lease
	row := r.db.QueryRowContext(ctx, "SELECT "+leaseCols+" FROM leases WHERE id = ?", id)
	if err := scanLease(row, &l); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeaseNotFound
		}
		return nil, err
	}
	return &l, nil
}

// List returns leases ordered by id. When tenantID is non-zero the result is
// restricted to that tenant; admins list with tenantID == 0 to see all rows.
func (r *LeaseRepo) List(ctx context.Context, tenantID uint64, skip, limit int) ([]*model.Lease, error) {
	q := "SELECT " + leaseCols + " FROM leases"
	args := []any{}
	if tenantID != 0 {
		q += " WHERE tenant_id = ?"
		args = append(args, tenantID)
	}
	q += " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, limit, skip)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Lease{}
	for rows.Next() {
		l := new(model.Lease)
		if err := scanLease(rows, l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a lease. Plain field edit: status
// changes through Update carry no room side effects, matching the admin
// flow where deletion is what frees a room.
func (r *LeaseRepo) Update(ctx context.Context, l *model.Lease) error {
	const q = `UPDATE leases
	           SET start_date = ?, end_date = ?, monthly_rent = ?, deposit = ?, status = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, l.StartDate, l.EndDate, l.MonthlyRent, l.Deposit, l.Status, l.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, l.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete terminates a lease: the room (when it still exists) is set back to
// available and the lease row removed, inside one transaction. A missing
// room is tolerated so orphaned leases can always be cleaned up.
func (r *LeaseRepo) Delete(ctx context.Context, id uint64) error {
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

	var roomID uint64
	err = tx.QueryRowContext(ctx, "SELECT room_id FROM leases WHERE id = ?", id).Scan(&roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrLeaseNotFound
		}
		return err
	}

	// Best-effort: zero rows affected means the room was already deleted.
	if _, err = tx.ExecContext(ctx,
		"UPDATE rooms SET status = ? WHERE id = ?", model.RoomAvailable, roomID); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM leases WHERE id = ?", id); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// CountByStatus returns the number of leases in the given status, used by
// the stats endpoint.
func (r *LeaseRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM leases WHERE status = ?", status).Scan(&n)
	return n, err
}
