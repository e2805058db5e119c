package router

import (
	"github.com/labstack/echo/v4"

	"github.com/epictutors/epic-tutors-server/internal/handler"
)

// RegisterStudent registers endpoints open to any authenticated caller.
// Handlers compare the requested email with the token email themselves.
func RegisterStudent(e *echo.Echo, gate Gate, identity *handler.IdentityHandler, selected *handler.SelectedClassHandler) {
	auth := gate.Authenticated()

	e.GET("/isStudent/:email", identity.IsStudent, auth)
	e.GET("/isInstructor/:email", identity.IsInstructor, auth)
	e.GET("/isAdmin/:email", identity.IsAdmin, auth)

	e.GET("/selectedClass", selected.List, auth)
}
