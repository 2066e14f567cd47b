package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/premises-rental/internal/middleware"
	"github.com/iliyamo/premises-rental/internal/model"
	"github.com/iliyamo/premises-rental/internal/policy"
	"github.com/iliyamo/premises-rental/internal/repository"
)

// FavoriteHandler manages the caller's saved-rooms list.
type FavoriteHandler struct {
	Favorites *repository.FavoriteRepo
	Rooms     *repository.RoomRepo
}

func NewFavoriteHandler(f *repository.FavoriteRepo, r *repository.RoomRepo) *FavoriteHandler {
	return &FavoriteHandler{Favorites: f, Rooms: r}
}

// List returns the caller's own favorites; there is no cross-user listing.
func (h *FavoriteHandler) List(c echo.Context) error {
	u := middleware.Caller(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Favorites.ListByUser(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, list)
}

func (h *FavoriteHandler) Create(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpFavoriteCreate, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req struct {
		RoomID uint64 `json:"room_id"`
	}
	if err := c.Bind(&req); err != nil || req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Rooms.GetByID(ctx, req.RoomID); err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	f := model.Favorite{UserID: u.ID, RoomID: req.RoomID}
	if err := h.Favorites.Create(ctx, &f); err != nil {
		if err == repository.ErrAlreadyFavorited {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "room already in favorites"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create favorite failed"})
	}
	return c.JSON(http.StatusCreated, f)
}

// Delete removes a favorite. Admins may remove any; users only their own.
func (h *FavoriteHandler) Delete(c echo.Context) error {
	u := middleware.Caller(c)
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid favorite id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	f, err := h.Favorites.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrFavoriteNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "favorite not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !policy.Allow(u.Role, u.ID, policy.OpFavoriteDelete, f.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Favorites.Delete(ctx, id); err != nil {
		if err == repository.ErrFavoriteNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "favorite not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete favorite failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
