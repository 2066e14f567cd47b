package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/premises-rental/internal/model"
)

// ErrReviewNotFound is returned when a review does not exist.
var ErrReviewNotFound = errors.New("review not found")

// ReviewRepo manages room reviews. Rating bounds are validated at the
// handler boundary; the repository only persists rows.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review and populates the generated ID and created_at.
func (r *ReviewRepo) Create(ctx context.Context, v *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (user_id, room_id, rating, comment) VALUES (?, ?, ?, ?)",
		v.UserID, v.RoomID, v.Rating, nullStr(v.Comment))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)

	return r.db.QueryRowContext(ctx,
		"SELECT created_at FROM reviews WHERE id = ?", v.ID).Scan(&v.CreatedAt)
}

// GetByID fetches a review by id or returns ErrReviewNotFound.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	var v model.Review
	var comment sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, room_id, rating, comment, created_at FROM reviews WHERE id = ?", id).
		Scan(&v.ID, &v.UserID, &v.RoomID, &v.Rating, &comment, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	v.Comment = comment.String
	return &v, nil
}

// ListByRoom returns all reviews for a room, newest first.
func (r *ReviewRepo) ListByRoom(ctx context.Context, roomID uint64) ([]*model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, room_id, rating, comment, created_at
		 FROM reviews WHERE room_id = ? ORDER BY id DESC`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Review{}
	for rows.Next() {
		v := new(model.Review)
		var comment sql.NullString
		if err := rows.Scan(&v.ID, &v.UserID, &v.RoomID, &v.Rating, &comment, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.Comment = comment.String
		out = append(out, v)
	}
	return out, rows.Err()
}

// Delete removes a review row. ErrReviewNotFound when nothing was deleted.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReviewNotFound
	}
	return nil
}
