// Package router maps URLs onto handlers and decides which middleware each
// group runs. Three surfaces exist: open endpoints (health, auth), the public
// catalogue with optional authentication, and the protected /v1 group where a
// verified user record is attached to every request.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/premises-rental/internal/handler"
	"github.com/iliyamo/premises-rental/internal/middleware"
	"github.com/iliyamo/premises-rental/internal/model"
	"github.com/iliyamo/premises-rental/internal/repository"
)

// RegisterRoutes registers routes that carry no authentication at all.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the token endpoints under /v1/auth plus the protected
// /v1/me profile route.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, users *repository.UserRepo, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout takes a refresh token in the body or a bearer header, so it
	// does not sit behind the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.ResolveUser(users),
	)
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the guest-visible catalogue. Room listing runs
// with optional auth so logged-in browsers get their favorites flagged;
// extra middleware (response cache, rate limiter) is appended by the caller.
func RegisterPublic(e *echo.Echo, users *repository.UserRepo, rooms *handler.RoomHandler, companies *handler.CompanyHandler, buildings *handler.BuildingHandler, categories *handler.CategoryHandler, stats *handler.StatsHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("", extra...)

	g.GET("/v1/stats", stats.Get)

	g.GET("/v1/rooms", rooms.List,
		middleware.OptionalJWTAuth(jwtSecret), middleware.ResolveUserOptional(users))
	g.GET("/v1/rooms/:id", rooms.Get)
	g.GET("/v1/rooms/:id/photos", rooms.ListPhotos)
	g.GET("/v1/rooms/:id/reviews", rooms.ListReviews)

	g.GET("/v1/companies", companies.List)
	g.GET("/v1/companies/:id", companies.Get)
	g.GET("/v1/buildings", buildings.List)
	g.GET("/v1/buildings/:id", buildings.Get)
	g.GET("/v1/categories", categories.List)
	g.GET("/v1/categories/:id", categories.Get)
}

// RegisterProtected registers everything that needs an authenticated, still-
// existing user. RequireRole rejects tokens with unknown role claims early;
// fine-grained permissions are decided per handler by the policy package.
func RegisterProtected(
	e *echo.Echo,
	users *repository.UserRepo,
	jwtSecret string,
	rooms *handler.RoomHandler,
	companies *handler.CompanyHandler,
	buildings *handler.BuildingHandler,
	categories *handler.CategoryHandler,
	leases *handler.LeaseHandler,
	maint *handler.MaintenanceHandler,
	reviews *handler.ReviewHandler,
	favorites *handler.FavoriteHandler,
) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.ResolveUser(users),
		middleware.RequireRole(model.RoleAdmin, model.RoleLandlord, model.RoleUser),
	)

	g.POST("/companies", companies.Create)
	g.PUT("/companies/:id", companies.Update)
	g.DELETE("/companies/:id", companies.Delete)

	g.POST("/buildings", buildings.Create)
	g.PUT("/buildings/:id", buildings.Update)
	g.DELETE("/buildings/:id", buildings.Delete)

	g.POST("/categories", categories.Create)

	g.POST("/rooms", rooms.Create)
	g.PUT("/rooms/:id", rooms.Update)
	g.DELETE("/rooms/:id", rooms.Delete)
	g.POST("/rooms/:id/photos", rooms.UploadPhoto)
	g.DELETE("/rooms/photos/:id", rooms.DeletePhoto)

	g.GET("/leases", leases.List)
	g.POST("/leases", leases.Create)
	g.GET("/leases/:id", leases.Get)
	g.PUT("/leases/:id", leases.Update)
	g.DELETE("/leases/:id", leases.Delete)
	g.GET("/leases/:id/payments", leases.ListPayments)
	g.POST("/leases/:id/payments", leases.CreatePayment)

	g.GET("/maintenance", maint.List)
	g.POST("/maintenance", maint.Create)
	g.GET("/maintenance/:id", maint.Get)
	g.PUT("/maintenance/:id", maint.Update)
	g.DELETE("/maintenance/:id", maint.Delete)

	g.POST("/reviews", reviews.Create)
	g.DELETE("/reviews/:id", reviews.Delete)

	g.GET("/favorites", favorites.List)
	g.POST("/favorites", favorites.Create)
	g.DELETE("/favorites/:id", favorites.Delete)
}
