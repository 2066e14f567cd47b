package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/premises-rental/internal/model"
)

func newLease(roomID, tenantID uint64) *model.Lease {
	return &model.Lease{
		RoomID:      roomID,
		TenantID:    tenantID,
		StartDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		MonthlyRent: 1500,
	}
}

func TestLeaseCreateMarksRoomOccupied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	l := newLease(10, 3)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM rooms WHERE id = \\? FOR UPDATE").
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("available"))
	mock.ExpectExec("INSERT INTO leases").
		WithArgs(uint64(10), uint64(3), l.StartDate, l.EndDate, 1500.0, nil, "active").
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectExec("UPDATE rooms SET status = \\? WHERE id = \\?").
		WithArgs("occupied", uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT created_at FROM leases WHERE id = \\?").
		WithArgs(uint64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	err = NewLeaseRepo(db).Create(context.Background(), l)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), l.ID)
	assert.Equal(t, model.LeaseActive, l.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaseCreateRoomOccupiedRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM rooms WHERE id = \\? FOR UPDATE").
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("occupied"))
	mock.ExpectRollback()

	err = NewLeaseRepo(db).Create(context.Background(), newLease(10, 3))
	assert.ErrorIs(t, err, ErrRoomUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaseCreateMissingRoom(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM rooms WHERE id = \\? FOR UPDATE").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))
	mock.ExpectRollback()

	err = NewLeaseRepo(db).Create(context.Background(), newLease(99, 3))
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaseDeleteFreesRoom(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT room_id FROM leases WHERE id = \\?").
		WithArgs(uint64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"room_id"}).AddRow(10))
	mock.ExpectExec("UPDATE rooms SET status = \\? WHERE id = \\?").
		WithArgs("available", uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM leases WHERE id = \\?").
		WithArgs(uint64(77)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewLeaseRepo(db).Delete(context.Background(), 77)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaseDeleteToleratesMissingRoom(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT room_id FROM leases WHERE id = \\?").
		WithArgs(uint64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"room_id"}).AddRow(10))
	// Room row already gone: zero rows affected is fine.
	mock.ExpectExec("UPDATE rooms SET status = \\? WHERE id = \\?").
		WithArgs("available", uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM leases WHERE id = \\?").
		WithArgs(uint64(77)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewLeaseRepo(db).Delete(context.Background(), 77)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaseDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT room_id FROM leases WHERE id = \\?").
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"room_id"}))
	mock.ExpectRollback()

	err = NewLeaseRepo(db).Delete(context.Background(), 404)
	assert.ErrorIs(t, err, ErrLeaseNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaseListScoping(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "room_id", "tenant_id", "start_date", "end_date", "monthly_rent", "deposit", "status", "created_at"}
	now := time.Now()

	// Scoped: tenant filter present.
	mock.ExpectQuery("SELECT .+ FROM leases WHERE tenant_id = \\? ORDER BY id LIMIT \\? OFFSET \\?").
		WithArgs(uint64(3), 100, 0).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, 10, 3, now, now, 1500.0, nil, "active", now))

	repo := NewLeaseRepo(db)
	out, err := repo.List(context.Background(), 3, 0, 100)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Deposit)

	// Unscoped: admin listing with tenantID zero.
	mock.ExpectQuery("SELECT .+ FROM leases ORDER BY id LIMIT \\? OFFSET \\?").
		WithArgs(100, 0).
		WillReturnRows(sqlmock.NewRows(cols))

	out, err = repo.List(context.Background(), 0, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}
