package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is probed by load balancers and monitoring systems to verify
// that the service is up. It returns a plain "ok" with HTTP 200.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
