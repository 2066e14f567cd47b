package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/premises-rental/internal/model"
)

// ErrFavoriteNotFound is returned when a favorite does not exist.
var ErrFavoriteNotFound = errors.New("favorite not found")

// FavoriteRepo manages saved rooms. The (user_id, room_id) pair is unique;
// the table carries a UNIQUE constraint and Create also pre-checks so the
// caller gets ErrAlreadyFavorited instead of a bare driver error.
type FavoriteRepo struct {
	db *sql.DB
}

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Create saves a room for a user. ErrAlreadyFavorited when the pair exists.
func (r *FavoriteRepo) Create(ctx context.Context, f *model.Favorite) error {
	var existing uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM favorites WHERE user_id = ? AND room_id = ? LIMIT 1",
		f.UserID, f.RoomID).Scan(&existing)
	if err == nil {
		return ErrAlreadyFavorited
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO favorites (user_id, room_id) VALUES (?, ?)", f.UserID, f.RoomID)
	if err != nil {
		// The UNIQUE constraint closes the pre-check race.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrAlreadyFavorited
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// GetByID fetches a favorite by id or returns ErrFavoriteNotFound.
func (r *FavoriteRepo) GetByID(ctx context.Context, id uint64) (*model.Favorite, error) {
	var f model.Favorite
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, room_id FROM favorites WHERE id = ?", id).
		Scan(&f.ID, &f.UserID, &f.RoomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFavoriteNotFound
		}
		return nil, err
	}
	return &f, nil
}

// ListByUser returns all rooms saved by a user ordered by id.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Favorite, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, room_id FROM favorites WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Favorite{}
	for rows.Next() {
		f := new(model.Favorite)
		if err := rows.Scan(&f.ID, &f.UserID, &f.RoomID); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// RoomIDsForUser returns the set of room IDs the user has saved; used to
// mark favorites on personalized room listings.
func (r *FavoriteRepo) RoomIDsForUser(ctx context.Context, userID uint64) (map[uint64]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT room_id FROM favorites WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[uint64]bool{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

// Delete removes a favorite row. ErrFavoriteNotFound when nothing was deleted.
func (r *FavoriteRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM favorites WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}
