package repository

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/premises-rental/internal/model"
)

func TestFavoriteCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM favorites WHERE user_id = \\? AND room_id = \\? LIMIT 1").
		WithArgs(uint64(3), uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO favorites").
		WithArgs(uint64(3), uint64(10)).
		WillReturnResult(sqlmock.NewResult(5, 1))

	f := &model.Favorite{UserID: 3, RoomID: 10}
	require.NoError(t, NewFavoriteRepo(db).Create(context.Background(), f))
	assert.Equal(t, uint64(5), f.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteCreateDuplicatePreCheck(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM favorites WHERE user_id = \\? AND room_id = \\? LIMIT 1").
		WithArgs(uint64(3), uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	err = NewFavoriteRepo(db).Create(context.Background(), &model.Favorite{UserID: 3, RoomID: 10})
	assert.ErrorIs(t, err, ErrAlreadyFavorited)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteCreateDuplicateRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// The pre-check saw nothing, but a concurrent insert won the race and
	// the UNIQUE constraint fires.
	mock.ExpectQuery("SELECT id FROM favorites WHERE user_id = \\? AND room_id = \\? LIMIT 1").
		WithArgs(uint64(3), uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO favorites").
		WithArgs(uint64(3), uint64(10)).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '3-10' for key 'favorites.uq_user_room'"))

	err = NewFavoriteRepo(db).Create(context.Background(), &model.Favorite{UserID: 3, RoomID: 10})
	assert.ErrorIs(t, err, ErrAlreadyFavorited)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM favorites WHERE id = \\?").
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewFavoriteRepo(db).Delete(context.Background(), 9)
	assert.ErrorIs(t, err, ErrFavoriteNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomIDsForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT room_id FROM favorites WHERE user_id = \\?").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"room_id"}).AddRow(10).AddRow(11))

	ids, err := NewFavoriteRepo(db).RoomIDsForUser(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, map[uint64]bool{10: true, 11: true}, ids)
}
