package middleware

// identity.go resolves the verified token subject to a persisted user row.
// JWTAuth only proves the token was signed by us; ResolveUser proves the
// subject still exists. A valid token for a since-deleted user is a 404,
// deliberately distinct from the 401 returned for bad credentials.

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/premises-rental/internal/model"
	"github.com/iliyamo/premises-rental/internal/repository"
)

// callerKey is the context key under which ResolveUser stores the loaded user.
const callerKey = "caller"

// ResolveUser loads the user row for the subject placed in context by
// JWTAuth and stores it under "caller". It must run after JWTAuth.
func ResolveUser(users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := c.Get("user_id").(uint64)
			if !ok || id == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
			}
			c.Set(callerKey, &u)
			return next(c)
		}
	}
}

// Caller returns the resolved user stored by ResolveUser, or nil when the
// request is anonymous (optional-auth routes).
func Caller(c echo.Context) *model.User {
	u, _ := c.Get(callerKey).(*model.User)
	return u
}

// ResolveUserOptional is the anonymous-tolerant variant used behind
// OptionalJWTAuth: with no subject in context the request continues as a
// guest, but a subject that no longer resolves is still rejected.
func ResolveUserOptional(users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := c.Get("user_id").(uint64)
			if !ok || id == 0 {
				return next(c) // guest
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
			}
			c.Set(callerKey, &u)
			return next(c)
		}
	}
}
