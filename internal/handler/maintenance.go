package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/premises-rental/internal/middleware"
	"github.com/iliyamo/premises-rental/internal/model"
	"github.com/iliyamo/premises-rental/internal/policy"
	"github.com/iliyamo/premises-rental/internal/repository"
)

// MaintenanceHandler serves tenant maintenance requests. Tenants create and
// read their own; only admins move a request through its lifecycle.
type MaintenanceHandler struct {
	Requests *repository.MaintenanceRepo
	Rooms    *repository.RoomRepo

	// now is swappable in tests so resolved_at stamping is deterministic.
	now func() time.Time
}

func NewMaintenanceHandler(m *repository.MaintenanceRepo, r *repository.RoomRepo) *MaintenanceHandler {
	return &MaintenanceHandler{Requests: m, Rooms: r, now: time.Now}
}

// stampResolved applies the resolved_at rule to a request transitioning from
// oldStatus to its current status: entering resolved stamps the clock once,
// leaving resolved clears it, anything else leaves it alone.
func stampResolved(m *model.MaintenanceRequest, oldStatus string, now time.Time) {
	switch {
	case m.Status == model.RequestResolved && oldStatus != model.RequestResolved:
		t := now.UTC()
		m.ResolvedAt = &t
	case m.Status != model.RequestResolved && oldStatus == model.RequestResolved:
		m.ResolvedAt = nil
	}
}

func (h *MaintenanceHandler) List(c echo.Context) error {
	u := middleware.Caller(c)
	skip, limit := pagination(c)

	tenantID := u.ID
	if policy.Allow(u.Role, u.ID, policy.OpListAll, 0) {
		tenantID = 0
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Requests.List(ctx, tenantID, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, list)
}

func (h *MaintenanceHandler) Get(c echo.Context) error {
	u := middleware.Caller(c)
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRequestNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !policy.Allow(u.Role, u.ID, policy.OpMaintenanceRead, m.TenantID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MaintenanceHandler) Create(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpMaintenanceCreate, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req struct {
		RoomID      uint64 `json:"room_id"`
		Description string `json:"description"`
		Priority    string `json:"priority"` // optional, defaults to medium
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.RoomID == 0 || req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id and description required"})
	}
	priority := strings.ToLower(strings.TrimSpace(req.Priority))
	if priority != "" && !model.ValidPriority(priority) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid priority"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Rooms.GetByID(ctx, req.RoomID); err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	m := model.MaintenanceRequest{
		RoomID:      req.RoomID,
		TenantID:    u.ID,
		Description: req.Description,
		Priority:    priority,
	}
	if err := h.Requests.Create(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
	}
	return c.JSON(http.StatusCreated, m)
}

// Update moves a request through its lifecycle. Admin only. A transition
// into resolved stamps resolved_at with the server clock; moving away from
// resolved clears it so a later re-resolve gets a fresh stamp.
func (h *MaintenanceHandler) Update(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpMaintenanceUpdate, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}

	var req struct {
		Description *string `json:"description"`
		Priority    *string `json:"priority"`
		Status      *string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRequestNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	oldStatus := m.Status

	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		if d == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "description cannot be empty"})
		}
		m.Description = d
	}
	if req.Priority != nil {
		p := strings.ToLower(strings.TrimSpace(*req.Priority))
		if !model.ValidPriority(p) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid priority"})
		}
		m.Priority = p
	}
	if req.Status != nil {
		s := strings.ToLower(strings.TrimSpace(*req.Status))
		if !model.ValidRequestStatus(s) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		m.Status = s
	}
	stampResolved(m, oldStatus, h.now())

	if err := h.Requests.Update(ctx, m); err != nil {
		if err == repository.ErrRequestNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update request failed"})
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MaintenanceHandler) Delete(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpMaintenanceDelete, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Requests.Delete(ctx, id); err != nil {
		if err == repository.ErrRequestNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete request failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
