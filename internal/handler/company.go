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

// CompanyHandler serves the company catalogue. Reads are public; writes are
// admin only via policy.Allow.
type CompanyHandler struct {
	Companies *repository.CompanyRepo
}

func NewCompanyHandler(r *repository.CompanyRepo) *CompanyHandler {
	return &CompanyHandler{Companies: r}
}

type companyReq struct {
	Name          *string `json:"name"`
	TaxID         *string `json:"tax_id"`
	Address       *string `json:"address"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Description   *string `json:"description"`
}

// apply copies the fields that were present in the request onto dst.
// Pointer fields distinguish "absent" from "set to empty".
func (r *companyReq) apply(dst *model.Company) {
	if r.Name != nil {
		dst.Name = strings.TrimSpace(*r.Name)
	}
	if r.TaxID != nil {
		dst.TaxID = strings.TrimSpace(*r.TaxID)
	}
	if r.Address != nil {
		dst.Address = *r.Address
	}
	if r.ContactPerson != nil {
		dst.ContactPerson = *r.ContactPerson
	}
	if r.Phone != nil {
		dst.Phone = *r.Phone
	}
	if r.Email != nil {
		dst.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.Description != nil {
		dst.Description = *r.Description
	}
}

func (h *CompanyHandler) List(c echo.Context) error {
	skip, limit := pagination(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Companies.List(ctx, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CompanyHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cmp, err := h.Companies.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrCompanyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, cmp)
}

func (h *CompanyHandler) Create(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpCompanyWrite, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req companyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var cmp model.Company
	req.apply(&cmp)
	if cmp.Name == "" || cmp.TaxID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/tax_id required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Companies.Create(ctx, &cmp); err != nil {
		if err == repository.ErrTaxIDExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "tax_id already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create company failed"})
	}
	return c.JSON(http.StatusCreated, cmp)
}

func (h *CompanyHandler) Update(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpCompanyWrite, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}

	var req companyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cmp, err := h.Companies.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrCompanyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	req.apply(cmp)
	if cmp.Name == "" || cmp.TaxID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/tax_id required"})
	}

	if err := h.Companies.Update(ctx, cmp); err != nil {
		if err == repository.ErrCompanyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		if err == repository.ErrTaxIDExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "tax_id already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update company failed"})
	}
	return c.JSON(http.StatusOK, cmp)
}

func (h *CompanyHandler) Delete(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpCompanyWrite, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Companies.Delete(ctx, id); err != nil {
		if err == repository.ErrCompanyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete company failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
