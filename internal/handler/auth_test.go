package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/premises-rental/internal/config"
	"github.com/iliyamo/premises-rental/internal/model"
	"github.com/iliyamo/premises-rental/internal/repository"
	"github.com/iliyamo/premises-rental/internal/utils"
)

func authHandler(db *sql.DB) *AuthHandler {
	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: bcrypt.MinCost}
	return NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db))
}

func postJSON(t *testing.T, h echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("Ada Example", "ada@example.com", "", "user", sqlmock.AnyArg()).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'ada@example.com' for key 'users.email'"))

	h := authHandler(db)
	rec := postJSON(t, h.Register, "/v1/auth/register",
		`{"full_name":"Ada Example","email":"Ada@Example.com","password":"pw"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "email already registered", resp["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDefaultsRoleToUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// A self-assigned admin role is silently downgraded.
	mock.ExpectExec("INSERT INTO users").
		WithArgs("Ada Example", "ada@example.com", "", "user", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(uint64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	h := authHandler(db)
	rec := postJSON(t, h.Register, "/v1/auth/register",
		`{"full_name":"Ada Example","email":"ada@example.com","password":"pw","role":"admin"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		User struct {
			Role string `json:"role"`
		} `json:"user"`
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user", resp.User.Role)

	uid, role, err := utils.ParseAccessToken("test-secret", resp.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), uid)
	assert.Equal(t, "user", role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginBadCredentials(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hash, err := utils.HashPassword("right", bcrypt.MinCost)
	require.NoError(t, err)

	rows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "full_name", "email", "phone", "role", "password_hash", "created_at"}).
			AddRow(1, "Ada Example", "ada@example.com", "", "user", hash, time.Now())
	}

	h := authHandler(db)

	// Unknown email.
	mock.ExpectQuery("SELECT .+ FROM users WHERE email=\\? LIMIT 1").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	rec := postJSON(t, h.Login, "/v1/auth/login", `{"email":"ghost@example.com","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Wrong password for an existing account: identical status and message.
	mock.ExpectQuery("SELECT .+ FROM users WHERE email=\\? LIMIT 1").
		WithArgs("ada@example.com").
		WillReturnRows(rows())
	rec2 := postJSON(t, h.Login, "/v1/auth/login", `{"email":"ada@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
	assert.Equal(t, rec.Body.String(), rec2.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeOmitsPasswordHash(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("caller", &model.User{
		ID:           7,
		FullName:     "Ada Example",
		Email:        "ada@example.com",
		Role:         "user",
		PasswordHash: "$2a$10$notforclients",
		CreatedAt:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	h := &AuthHandler{}
	require.NoError(t, h.Me(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "notforclients")
	assert.NotContains(t, rec.Body.String(), "password_hash")

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(7), resp["id"])
	assert.Equal(t, "ada@example.com", resp["email"])
	assert.Equal(t, "Ada Example", resp["full_name"])
}

func TestRefreshRotationRevokesOldToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	const old = "aaaabbbbccccdddd"
	oldHash := utils.HashRefreshRaw(old)
	future := time.Now().Add(24 * time.Hour).UTC()

	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = \\? LIMIT 1").
		WithArgs(oldHash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(1, future, nil))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at = NOW\\(\\) WHERE token_hash = \\? AND revoked_at IS NULL").
		WithArgs(oldHash).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id,full_name,email,phone,role,password_hash,created_at FROM users WHERE id=\\? LIMIT 1").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "phone", "role", "password_hash", "created_at"}).
			AddRow(1, "Ada Example", "ada@example.com", "", "user", "x", time.Now()))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(uint64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))

	h := authHandler(db)
	rec := postJSON(t, h.Refresh, "/v1/auth/refresh", `{"refresh_token":"`+old+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Refresh struct {
			Token string `json:"token"`
		} `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEqual(t, old, resp.Refresh.Token)

	// Presenting the rotated-out token again finds it revoked.
	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = \\? LIMIT 1").
		WithArgs(oldHash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(1, future, time.Now().UTC()))
	rec2 := postJSON(t, h.Refresh, "/v1/auth/refresh", `{"refresh_token":"`+old+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshFailsWhenRevocationFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	const old = "eeeeffff00001111"
	oldHash := utils.HashRefreshRaw(old)

	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = \\? LIMIT 1").
		WithArgs(oldHash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(1, time.Now().Add(time.Hour).UTC(), nil))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at = NOW\\(\\) WHERE token_hash = \\? AND revoked_at IS NULL").
		WithArgs(oldHash).
		WillReturnError(errors.New("lock wait timeout"))

	h := authHandler(db)
	rec := postJSON(t, h.Refresh, "/v1/auth/refresh", `{"refresh_token":"`+old+`"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
