package router

import (
	"github.com/labstack/echo/v4"

	"github.com/epictutors/epic-tutors-server/internal/handler"
)

// RegisterInstructor registers endpoints that require the instructor role.
func RegisterInstructor(e *echo.Echo, gate Gate, classes *handler.ClassHandler) {
	instructor := gate.Instructor()

	e.POST("/addClass", classes.Add, instructor)
	e.GET("/instructorClasses", classes.ByInstructor, instructor)
}
