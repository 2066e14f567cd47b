package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/premises-rental/internal/model"
)

// ErrCategoryNotFound is returned when a room category does not exist.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepo manages the room_categories tag table. Categories have no
// lifecycle beyond create/list; they are referenced by rooms.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// Create inserts a category and populates the generated ID.
func (r *CategoryRepo) Create(ctx context.Context, c *model.RoomCategory) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO room_categories (name, description) VALUES (?, ?)",
		c.Name, nullStr(c.Description))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches one category or returns ErrCategoryNotFound.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*model.RoomCategory, error) {
	var c model.RoomCategory
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, description FROM room_categories WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &desc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	c.Description = desc.String
	return &c, nil
}

// List returns all categories ordered by id.
func (r *CategoryRepo) List(ctx context.Context) ([]*model.RoomCategory, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, description FROM room_categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.RoomCategory{}
	for rows.Next() {
		c := new(model.RoomCategory)
		var desc sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &desc); err != nil {
			return nil, err
		}
		c.Description = desc.String
		out = append(out, c)
	}
	return out, rows.Err()
}
