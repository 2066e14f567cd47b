package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/premises-rental/internal/model"
	"github.com/iliyamo/premises-rental/internal/repository"
)

// StatsHandler serves the public dashboard counters. The endpoint sits
// behind the Redis response cache, so each counter query runs at most once
// per cache window.
type StatsHandler struct {
	Rooms     *repository.RoomRepo
	Buildings *repository.BuildingRepo
	Leases    *repository.LeaseRepo
	Users     *repository.UserRepo
}

func NewStatsHandler(r *repository.RoomRepo, b *repository.BuildingRepo, l *repository.LeaseRepo, u *repository.UserRepo) *StatsHandler {
	return &StatsHandler{Rooms: r, Buildings: b, Leases: l, Users: u}
}

func (h *StatsHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	available, err := h.Rooms.CountByStatus(ctx, model.RoomAvailable)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	buildings, err := h.Buildings.CountAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	activeLeases, err := h.Leases.CountByStatus(ctx, model.LeaseActive)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	users, err := h.Users.CountAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"available_rooms": available,
		"buildings":       buildings,
		"active_leases":   activeLeases,
		"users":           users,
	})
}
