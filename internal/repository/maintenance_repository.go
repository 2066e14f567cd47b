package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/premises-rental/internal/model"
)

// ErrRequestNotFound is returned when a maintenance request does not exist.
var ErrRequestNotFound = errors.New("maintenance request not found")

// MaintenanceRepo manages tenant-raised maintenance requests against rooms.
type MaintenanceRepo struct {
	db *sql.DB
}

func NewMaintenanceRepo(db *sql.DB) *MaintenanceRepo { return &MaintenanceRepo{db: db} }

const requestCols = "id, room_id, tenant_id, description, priority, status, created_at, resolved_at"

func scanRequest(row interface{ Scan(...any) error }, m *model.MaintenanceRequest) error {
	var resolved sql.NullTime
	if err := row.Scan(&m.ID, &m.RoomID, &m.TenantID, &m.Description, &m.Priority,
		&m.Status, &m.CreatedAt, &resolved); err != nil {
		return err
	}
	if resolved.Valid {
		t := resolved.Time
		m.ResolvedAt = &t
	}
	return nil
}

// Create inserts a request and populates the generated ID and created_at.
func (r *MaintenanceRepo) Create(ctx context.Context, m *model.MaintenanceRequest) error {
	if m.Priority == "" {
		m.Priority = model.PriorityMedium
	}
	if m.Status == "" {
		m.Status = model.RequestPending
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO maintenance_requests (room_id, tenant_id, description, priority, status)
		 VALUES (?, ?, ?, ?, ?)`,
		m.RoomID, m.TenantID, m.Description, m.Priority, m.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	return r.db.QueryRowContext(ctx,
		"SELECT created_at FROM maintenance_requests WHERE id = ?", m.ID).Scan(&m.CreatedAt)
}

// GetByID fetches a request by id or returns ErrRequestNotFound.
func (r *MaintenanceRepo) GetByID(ctx context.Context, id uint64) (*model.MaintenanceRequest, error) {
	var m model.MaintenanceRequest
	row := r.db.QueryRowContext(ctx, "SELECT "+requestCols+" FROM maintenance_requests WHERE id = ?", id)
	if err := scanRequest(row, &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns requests ordered by id. When tenantID is non-zero only that
// tenant's requests are returned; admins pass zero to see all rows.
func (r *MaintenanceRepo) List(ctx context.Context, tenantID uint64, skip, limit int) ([]*model.MaintenanceRequest, error) {
	q := "SELECT " + requestCols + " FROM maintenance_requests"
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

	out := []*model.MaintenanceRequest{}
	for rows.Next() {
		m := new(model.MaintenanceRequest)
		if err := scanRequest(rows, m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update persists the mutable fields of a request including resolved_at.
// The handler decides whether resolved_at is (re)stamped; the repository
// writes exactly what it is given.
func (r *MaintenanceRepo) Update(ctx context.Context, m *model.MaintenanceRequest) error {
	const q = `UPDATE maintenance_requests
	           SET description = ?, priority = ?, status = ?, resolved_at = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, m.Description, m.Priority, m.Status, m.ResolvedAt, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, m.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a request row. ErrRequestNotFound when nothing was deleted.
func (r *MaintenanceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM maintenance_requests WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRequestNotFound
	}
	return nil
}
