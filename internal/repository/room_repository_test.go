package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/premises-rental/internal/model"
)

var roomColNames = []string{"id", "building_id", "category_id", "room_number", "floor", "area", "price_per_month", "status", "description"}

func TestRoomListNoFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM rooms ORDER BY id LIMIT \\? OFFSET \\?").
		WithArgs(100, 0).
		WillReturnRows(sqlmock.NewRows(roomColNames).
			AddRow(1, nil, nil, "101", nil, nil, 900.0, "available", nil))

	out, err := NewRoomRepo(db).List(context.Background(), model.RoomFilter{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].BuildingID)
	assert.Equal(t, "101", out[0].RoomNumber)
	assert.Equal(t, "available", out[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomListAllFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	min, max := 500.0, 2000.0
	f := model.RoomFilter{
		Status:     "available",
		CategoryID: 2,
		BuildingID: 4,
		MinPrice:   &min,
		MaxPrice:   &max,
		Skip:       20,
		Limit:      10,
	}

	mock.ExpectQuery("SELECT .+ FROM rooms WHERE status = \\? AND category_id = \\? AND building_id = \\? AND price_per_month >= \\? AND price_per_month <= \\? ORDER BY id LIMIT \\? OFFSET \\?").
		WithArgs("available", uint64(2), uint64(4), 500.0, 2000.0, 10, 20).
		WillReturnRows(sqlmock.NewRows(roomColNames))

	out, err := NewRoomRepo(db).List(context.Background(), f)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM rooms WHERE id = \\?").
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows(roomColNames))

	_, err = NewRoomRepo(db).GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomCreateDefaultsToAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO rooms").
		WithArgs(nil, nil, "101", nil, nil, 900.0, "available", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	r := &model.Room{RoomNumber: "101", PricePerMonth: 900}
	require.NoError(t, NewRoomRepo(db).Create(context.Background(), r))
	assert.Equal(t, uint64(1), r.ID)
	assert.Equal(t, model.RoomAvailable, r.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
