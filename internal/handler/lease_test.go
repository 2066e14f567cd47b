package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/premises-rental/internal/model"
	"github.com/iliyamo/premises-rental/internal/repository"
)

func leaseCtx(t *testing.T, method, body string, caller *model.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/v1/leases", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("caller", caller)
	return c, rec
}

func TestLeaseCreateValidation(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := NewLeaseHandler(repository.NewLeaseRepo(db), repository.NewPaymentRepo(db), repository.NewRoomRepo(db))
	user := &model.User{ID: 3, Role: model.RoleUser}

	cases := []struct {
		name string
		body string
	}{
		{"missing room", `{"monthly_rent":1500,"start_date":"2026-01-01","end_date":"2027-01-01"}`},
		{"zero rent", `{"room_id":10,"start_date":"2026-01-01","end_date":"2027-01-01"}`},
		{"bad date format", `{"room_id":10,"monthly_rent":1500,"start_date":"01/01/2026","end_date":"2027-01-01"}`},
		{"end before start", `{"room_id":10,"monthly_rent":1500,"start_date":"2027-01-01","end_date":"2026-01-01"}`},
		{"end equals start", `{"room_id":10,"monthly_rent":1500,"start_date":"2026-01-01","end_date":"2026-01-01"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := leaseCtx(t, http.MethodPost, tc.body, user)
			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLeaseCreateOnBehalfRequiresAdmin(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := NewLeaseHandler(repository.NewLeaseRepo(db), repository.NewPaymentRepo(db), repository.NewRoomRepo(db))
	body := `{"room_id":10,"tenant_id":99,"monthly_rent":1500,"start_date":"2026-01-01","end_date":"2027-01-01"}`

	c, rec := leaseCtx(t, http.MethodPost, body, &model.User{ID: 3, Role: model.RoleUser})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLeaseUpdateForbiddenForTenant(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := NewLeaseHandler(repository.NewLeaseRepo(db), repository.NewPaymentRepo(db), repository.NewRoomRepo(db))

	c, rec := leaseCtx(t, http.MethodPut, `{"status":"terminated"}`, &model.User{ID: 3, Role: model.RoleUser})
	c.SetParamNames("id")
	c.SetParamValues("77")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLeaseGetOwnershipEnforced(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "room_id", "tenant_id", "start_date", "end_date", "monthly_rent", "deposit", "status", "created_at"}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	h := NewLeaseHandler(repository.NewLeaseRepo(db), repository.NewPaymentRepo(db), repository.NewRoomRepo(db))

	mock.ExpectQuery("SELECT .+ FROM leases WHERE id = \\?").
		WithArgs(uint64(77)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(77, 10, 4, start, end, 1500.0, nil, "active", start))

	// Tenant 3 asking for tenant 4's lease.
	c, rec := leaseCtx(t, http.MethodGet, "", &model.User{ID: 3, Role: model.RoleUser})
	c.SetParamNames("id")
	c.SetParamValues("77")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "forbidden", resp["error"])
}
