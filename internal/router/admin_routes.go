package router

import (
	"github.com/labstack/echo/v4"

	"github.com/epictutors/epic-tutors-server/internal/handler"
)

// RegisterAdmin registers endpoints that require the admin role: the full
// class and user listings, role changes and class review.
func RegisterAdmin(e *echo.Echo, gate Gate, classes *handler.ClassHandler, users *handler.UserHandler) {
	admin := gate.Admin()

	e.GET("/allclasses", classes.All, admin)
	e.GET("/users", users.Users, admin)

	e.PUT("/makeAdmin/:id", users.MakeAdmin, admin)
	e.PUT("/makeInstructor/:id", users.MakeInstructor, admin)

	e.PUT("/approveClass/:id", classes.Approve, admin)
	e.PUT("/rejectClass/:id", classes.Reject, admin)
}
