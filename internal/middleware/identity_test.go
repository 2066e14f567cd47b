package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/premises-rental/internal/repository"
)

func userRows(id uint64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "full_name", "email", "phone", "role", "password_hash", "created_at"}).
		AddRow(id, "Ada Example", "ada@example.com", "", "user", "x", time.Now())
}

func runResolve(t *testing.T, mw echo.MiddlewareFunc, userID any) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set("user_id", userID)
	}
	reached := false
	h := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c, reached
}

func TestResolveUserLoadsCaller(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id,full_name,email,phone,role,password_hash,created_at FROM users WHERE id=\\? LIMIT 1").
		WithArgs(uint64(5)).
		WillReturnRows(userRows(5))

	rec, c, reached := runResolve(t, ResolveUser(repository.NewUserRepo(db)), uint64(5))
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)

	u := Caller(c)
	require.NotNil(t, u)
	assert.Equal(t, uint64(5), u.ID)
	assert.Equal(t, "user", u.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUserDeletedUserIs404(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id,full_name,email,phone,role,password_hash,created_at FROM users WHERE id=\\? LIMIT 1").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// A valid token whose subject no longer exists: 404, not 401.
	rec, _, reached := runResolve(t, ResolveUser(repository.NewUserRepo(db)), uint64(5))
	assert.False(t, reached)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUserWithoutSubject(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec, _, reached := runResolve(t, ResolveUser(repository.NewUserRepo(db)), nil)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResolveUserOptionalGuestPassesThrough(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec, c, reached := runResolve(t, ResolveUserOptional(repository.NewUserRepo(db)), nil)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, Caller(c))
}
