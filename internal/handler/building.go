package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/premises-rental/internal/middleware"
	"github.com/iliyamo/premises-rental/internal/model"
	"github.com/iliyamo/premises-rental/internal/policy"
	"github.com/iliyamo/premises-rental/internal/repository"
)

// BuildingHandler serves buildings. Reads are public; writes are open to
// landlords and admins, the one place landlords outrank plain users.
type BuildingHandler struct {
	Buildings *repository.BuildingRepo
	Companies *repository.CompanyRepo
}

func NewBuildingHandler(b *repository.BuildingRepo, cmp *repository.CompanyRepo) *BuildingHandler {
	return &BuildingHandler{Buildings: b, Companies: cmp}
}

type buildingReq struct {
	CompanyID   *uint64  `json:"company_id"`
	Name        *string  `json:"name"`
	Address     *string  `json:"address"`
	YearBuilt   *int     `json:"year_built"`
	TotalArea   *float64 `json:"total_area"`
	Description *string  `json:"description"`
}

func (r *buildingReq) apply(dst *model.Building) {
	if r.CompanyID != nil {
		dst.CompanyID = *r.CompanyID
	}
	if r.Name != nil {
		dst.Name = strings.TrimSpace(*r.Name)
	}
	if r.Address != nil {
		dst.Address = *r.Address
	}
	if r.YearBuilt != nil {
		dst.YearBuilt = r.YearBuilt
	}
	if r.TotalArea != nil {
		dst.TotalArea = r.TotalArea
	}
	if r.Description != nil {
		dst.Description = *r.Description
	}
}

func (h *BuildingHandler) List(c echo.Context) error {
	skip, limit := pagination(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Buildings.List(ctx, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, list)
}

func (h *BuildingHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid building id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Buildings.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBuildingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BuildingHandler) Create(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpBuildingWrite, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req buildingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var b model.Building
	req.apply(&b)
	if b.Name == "" || b.CompanyID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/company_id required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// The owning company must exist before hanging a building off it.
	if _, err := h.Companies.GetByID(ctx, b.CompanyID); err != nil {
		if err == repository.ErrCompanyNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "company does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Buildings.Create(ctx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create building failed"})
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BuildingHandler) Update(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpBuildingWrite, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid building id"})
	}

	var req buildingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Buildings.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBuildingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	req.apply(b)
	if b.Name == "" || b.CompanyID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/company_id required"})
	}

	if err := h.Buildings.Update(ctx, b); err != nil {
		if err == repository.ErrBuildingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update building failed"})
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BuildingHandler) Delete(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpBuildingWrite, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid building id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Buildings.Delete(ctx, id); err != nil {
		if err == repository.ErrBuildingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete building failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
