package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/premises-rental/internal/model"
)

// ErrPhotoNotFound is returned when a room photo does not exist.
var ErrPhotoNotFound = errors.New("photo not found")

// PhotoRepo manages room photo metadata rows. The binary content lives on
// disk; the handler owns file I/O so that a missing file never blocks row
// deletion.
type PhotoRepo struct {
	db *sql.DB
}

func NewPhotoRepo(db *sql.DB) *PhotoRepo { return &PhotoRepo{db: db} }

// Create inserts a photo row and populates the generated ID.
func (r *PhotoRepo) Create(ctx context.Context, p *model.RoomPhoto) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO room_photos (room_id, photo_url, description) VALUES (?, ?, ?)",
		p.RoomID, p.PhotoURL, nullStr(p.Description))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches one photo row or returns ErrPhotoNotFound.
func (r *PhotoRepo) GetByID(ctx context.Context, id uint64) (*model.RoomPhoto, error) {
	var p model.RoomPhoto
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT id, room_id, photo_url, description FROM room_photos WHERE id = ?", id).
		Scan(&p.ID, &p.RoomID, &p.PhotoURL, &desc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	p.Description = desc.String
	return &p, nil
}

// ListByRoom returns all photos for a room ordered by id.
func (r *PhotoRepo) ListByRoom(ctx context.Context, roomID uint64) ([]*model.RoomPhoto, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, room_id, photo_url, description FROM room_photos WHERE room_id = ? ORDER BY id", roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.RoomPhoto{}
	for rows.Next() {
		p := new(model.RoomPhoto)
		var desc sql.NullString
		if err := rows.Scan(&p.ID, &p.RoomID, &p.PhotoURL, &desc); err != nil {
			return nil, err
		}
		p.Description = desc.String
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes a photo row. ErrPhotoNotFound when nothing was deleted.
func (r *PhotoRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM room_photos WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPhotoNotFound
	}
	return nil
}
