// Package router wires handlers and interceptor chains onto Echo routes.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/epictutors/epic-tutors-server/internal/handler"
	"github.com/epictutors/epic-tutors-server/internal/middleware"
)

// Gate builds the interceptor chains placed in front of protected routes.
type Gate struct {
	Auth  *middleware.Authenticator
	Roles *middleware.RoleAuthorizer
}

// Authenticated admits any caller with a valid token.
func (g Gate) Authenticated() echo.MiddlewareFunc {
	return middleware.Chain(g.Auth.Authenticate)
}

// Instructor admits authenticated callers whose stored role is instructor.
func (g Gate) Instructor() echo.MiddlewareFunc {
	return middleware.Chain(g.Auth.Authenticate, g.Roles.Instructor())
}

// Admin admits authenticated callers whose stored role is admin.
func (g Gate) Admin() echo.MiddlewareFunc {
	return middleware.Chain(g.Auth.Authenticate, g.Roles.Admin())
}

// Setup installs the error boundary, the request validator and the global
// middleware stack. extra runs after logging, in order (rate limiter).
func Setup(e *echo.Echo, logger *zap.Logger, extra ...echo.MiddlewareFunc) {
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(logger)
	e.Validator = handler.NewRequestValidator()

	e.Use(echomw.Recover())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.CORS())
	e.Use(extra...)
}

// RegisterRoutes registers the liveness endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers token issuance and user registration. Neither
// requires a session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/jwt", a.IssueToken)
	e.POST("/adduser", a.AddUser)
}

// RegisterPublic registers unauthenticated browse endpoints. cache wraps
// the read-only listings.
func RegisterPublic(e *echo.Echo, classes *handler.ClassHandler, users *handler.UserHandler, selected *handler.SelectedClassHandler, cache echo.MiddlewareFunc) {
	e.GET("/classes", classes.Approved, cache)
	e.GET("/popularClasses", classes.Popular, cache)
	e.GET("/instructors", users.Instructors, cache)
	e.GET("/popularInstructors", users.PopularInstructors, cache)

	e.POST("/selectClass", selected.Select)
}
