package handler

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/premises-rental/internal/config"
	"github.com/iliyamo/premises-rental/internal/middleware"
	"github.com/iliyamo/premises-rental/internal/model"
	"github.com/iliyamo/premises-rental/internal/policy"
	"github.com/iliyamo/premises-rental/internal/repository"
)

// RoomHandler serves the public room catalogue plus the admin-managed photo
// gallery. Listing runs behind optional auth: an authenticated caller gets
// their favorites marked on each row, everyone else sees the plain catalogue.
type RoomHandler struct {
	Cfg       config.Config
	Rooms     *repository.RoomRepo
	Photos    *repository.PhotoRepo
	Reviews   *repository.ReviewRepo
	Favorites *repository.FavoriteRepo
}

func NewRoomHandler(cfg config.Config, r *repository.RoomRepo, p *repository.PhotoRepo, rv *repository.ReviewRepo, f *repository.FavoriteRepo) *RoomHandler {
	return &RoomHandler{Cfg: cfg, Rooms: r, Photos: p, Reviews: rv, Favorites: f}
}

type roomReq struct {
	BuildingID    *uint64  `json:"building_id"`
	CategoryID    *uint64  `json:"category_id"`
	RoomNumber    *string  `json:"room_number"`
	Floor         *int     `json:"floor"`
	Area          *float64 `json:"area"`
	PricePerMonth *float64 `json:"price_per_month"`
	Status        *string  `json:"status"`
	Description   *string  `json:"description"`
}

func (r *roomReq) apply(dst *model.Room) {
	if r.BuildingID != nil {
		dst.BuildingID = r.BuildingID
	}
	if r.CategoryID != nil {
		dst.CategoryID = r.CategoryID
	}
	if r.RoomNumber != nil {
		dst.RoomNumber = strings.TrimSpace(*r.RoomNumber)
	}
	if r.Floor != nil {
		dst.Floor = r.Floor
	}
	if r.Area != nil {
		dst.Area = r.Area
	}
	if r.PricePerMonth != nil {
		dst.PricePerMonth = *r.PricePerMonth
	}
	if r.Status != nil {
		dst.Status = strings.ToLower(strings.TrimSpace(*r.Status))
	}
	if r.Description != nil {
		dst.Description = *r.Description
	}
}

// roomFilterFrom builds the repository filter out of the query string.
func roomFilterFrom(c echo.Context) (model.RoomFilter, bool) {
	var f model.RoomFilter
	f.Skip, f.Limit = pagination(c)

	if s := strings.ToLower(strings.TrimSpace(c.QueryParam("status"))); s != "" {
		if !model.ValidRoomStatus(s) {
			return f, false
		}
		f.Status = s
	}
	if v := c.QueryParam("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return f, false
		}
		f.CategoryID = id
	}
	if v := c.QueryParam("building_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return f, false
		}
		f.BuildingID = id
	}
	if v := c.QueryParam("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 {
			return f, false
		}
		f.MinPrice = &p
	}
	if v := c.QueryParam("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 {
			return f, false
		}
		f.MaxPrice = &p
	}
	return f, true
}

// List is the public catalogue endpoint. When the request carried a valid
// bearer token the caller's favorites are flagged on the returned rooms.
func (h *RoomHandler) List(c echo.Context) error {
	f, ok := roomFilterFrom(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid filter"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rooms, err := h.Rooms.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if u := middleware.Caller(c); u != nil {
		favs, err := h.Favorites.RoomIDsForUser(ctx, u.ID)
		if err == nil {
			for _, r := range rooms {
				r.Favorited = favs[r.ID]
			}
		}
		// Favorite marking is decoration only; a failed lookup still
		// returns the catalogue.
	}
	return c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	r, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, r)
}

func (h *RoomHandler) Create(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpRoomWrite, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var r model.Room
	req.apply(&r)
	if r.RoomNumber == "" || r.PricePerMonth <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_number and positive price_per_month required"})
	}
	if r.Status != "" && !model.ValidRoomStatus(r.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Rooms.Create(ctx, &r); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *RoomHandler) Update(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpRoomWrite, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	r, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	req.apply(r)
	if r.RoomNumber == "" || r.PricePerMonth <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_number and positive price_per_month required"})
	}
	if !model.ValidRoomStatus(r.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	if err := h.Rooms.Update(ctx, r); err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update room failed"})
	}
	return c.JSON(http.StatusOK, r)
}

func (h *RoomHandler) Delete(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpRoomWrite, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Rooms.Delete(ctx, id); err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete room failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- photos -----

// UploadPhoto stores a multipart image under UPLOAD_DIR/rooms with a random
// name and records the public URL. Admin only.
func (h *RoomHandler) UploadPhoto(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpPhotoWrite, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Rooms.GetByID(ctx, roomID); err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file field required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read upload"})
	}
	defer src.Close()

	dir := filepath.Join(h.Cfg.UploadDir, "rooms")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage unavailable"})
	}
	// Random file name keeps uploads from clobbering each other and strips
	// whatever the client called the file.
	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage unavailable"})
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "write failed"})
	}
	dst.Close()

	photo := model.RoomPhoto{
		RoomID:      roomID,
		PhotoURL:    "/" + filepath.ToSlash(filepath.Join(h.Cfg.UploadDir, "rooms", name)),
		Description: c.FormValue("description"),
	}
	if err := h.Photos.Create(ctx, &photo); err != nil {
		os.Remove(path)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save photo failed"})
	}
	return c.JSON(http.StatusCreated, photo)
}

func (h *RoomHandler) ListPhotos(c echo.Context) error {
	roomID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	photos, err := h.Photos.ListByRoom(ctx, roomID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, photos)
}

// DeletePhoto removes the row and then the file. A missing file is not an
// error: the row is the source of truth.
func (h *RoomHandler) DeletePhoto(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpPhotoWrite, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	photo, err := h.Photos.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrPhotoNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "photo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Photos.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete photo failed"})
	}
	_ = os.Remove(strings.TrimPrefix(photo.PhotoURL, "/"))
	return c.NoContent(http.StatusNoContent)
}

// ListReviews returns a room's reviews, newest first. Public.
func (h *RoomHandler) ListReviews(c echo.Context) error {
	roomID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Rooms.GetByID(ctx, roomID); err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	reviews, err := h.Reviews.ListByRoom(ctx, roomID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, reviews)
}
