package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/premises-rental/internal/model"
)

// RoomRepo encapsulates all database queries related to rooms. Room status
// transitions driven by leases live in LeaseRepo so they share the lease
// transaction; RoomRepo only performs direct CRUD.
type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomCols = "id, building_id, category_id, room_number, floor, area, price_per_month, status, description"

func scanRoom(row interface{ Scan(...any) error }, m *model.Room) error {
	var building, category sql.NullInt64
	var floor sql.NullInt64
	var area sql.NullFloat64
	var desc sql.NullString
	if err := row.Scan(&m.ID, &building, &category, &m.RoomNumber, &floor, &area, &m.PricePerMonth, &m.Status, &desc); err != nil {
		return err
	}
	if building.Valid {
		v := uint64(building.Int64)
		m.BuildingID = &v
	}
	if category.Valid {
		v := uint64(category.Int64)
		m.CategoryID = &v
	}
	if floor.Valid {
		v := int(floor.Int64)
		m.Floor = &v
	}
	if area.Valid {
		v := area.Float64
		m.Area = &v
	}
	m.Description = desc.String
	return nil
}

// Create inserts a new room. Status defaults to available unless set.
func (r *RoomRepo) Create(ctx context.Context, m *model.Room) error {
	if m.Status == "" {
		m.Status = model.RoomAvailable
	}
	const q = `INSERT INTO rooms (building_id, category_id, room_number, floor, area, price_per_month, status, description)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		m.BuildingID, m.CategoryID, m.RoomNumber, m.Floor, m.Area, m.PricePerMonth, m.Status, nullStr(m.Description))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID fetches a room by its ID or returns ErrRoomNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	var m model.Room
	row := r.db.QueryRowContext(ctx, "SELECT "+roomCols+" FROM rooms WHERE id = ?", id)
	if err := scanRoom(row, &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns rooms matching the filter, ordered by id. Every filter field
// is optional; the WHERE clause is assembled only from the constraints that
// are actually set.
func (r *RoomRepo) List(ctx context.Context, f model.RoomFilter) ([]*model.Room, error) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.CategoryID != 0 {
		conds = append(conds, "category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.BuildingID != 0 {
		conds = append(conds, "building_id = ?")
		args = append(args, f.BuildingID)
	}
	if f.MinPrice != nil {
		conds = append(conds, "price_per_month >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price_per_month <= ?")
		args = append(args, *f.MaxPrice)
	}

	q := "SELECT " + roomCols + " FROM rooms"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY id LIMIT ? OFFSET ?"
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit, f.Skip)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Room{}
	for rows.Next() {
		m := new(model.Room)
		if err := scanRoom(rows, m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a room, including a manual status
// change (e.g. taking a room into maintenance).
func (r *RoomRepo) Update(ctx context.Context, m *model.Room) error {
	const q = `UPDATE rooms
	           SET building_id = ?, category_id = ?, room_number = ?, floor = ?, area = ?,
	               price_per_month = ?, status = ?, description = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		m.BuildingID, m.CategoryID, m.RoomNumber, m.Floor, m.Area,
		m.PricePerMonth, m.Status, nullStr(m.Description), m.ID)
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

// Delete removes a room row. ErrRoomNotFound when nothing was deleted.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// CountByStatus returns the number of rooms in the given status, used by the
// stats endpoint.
func (r *RoomRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms WHERE status = ?", status).Scan(&n)
	return n, err
}
