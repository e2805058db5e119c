package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Root answers GET / with a plain-text liveness banner.
func Root(c echo.Context) error {
	return c.String(http.StatusOK, "Epic-Tutors is running")
}

// Health is a health-check endpoint for load balancers and monitoring.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
