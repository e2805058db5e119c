package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/epictutors/epic-tutors-server/internal/handler"
	"github.com/epictutors/epic-tutors-server/internal/middleware"
	"github.com/epictutors/epic-tutors-server/internal/repository"
	"github.com/epictutors/epic-tutors-server/internal/service"
	"github.com/epictutors/epic-tutors-server/internal/store"
	"github.com/epictutors/epic-tutors-server/internal/token"
)

// Deps are the collaborators needed to assemble the API.
type Deps struct {
	Store     store.Store
	Tokens    *token.Codec
	Publisher service.Publisher
	// Cache wraps public listings; nil disables caching.
	Cache echo.MiddlewareFunc
	// RateLimit runs on every request; nil disables limiting.
	RateLimit echo.MiddlewareFunc
}

// New builds a fully wired Echo instance.
func New(deps Deps, logger *zap.Logger) *echo.Echo {
	if deps.Publisher == nil {
		deps.Publisher = service.NopPublisher{}
	}
	cache := deps.Cache
	if cache == nil {
		cache = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	users := repository.NewUserRepo(deps.Store)
	classes := repository.NewClassRepo(deps.Store)
	selected := repository.NewSelectedClassRepo(deps.Store)

	gate := Gate{
		Auth:  middleware.NewAuthenticator(deps.Tokens, logger),
		Roles: middleware.NewRoleAuthorizer(users, logger),
	}
	authH := handler.NewAuthHandler(deps.Tokens, users, logger)
	classH := handler.NewClassHandler(classes, deps.Publisher, logger)
	userH := handler.NewUserHandler(users, deps.Publisher, logger)
	selectedH := handler.NewSelectedClassHandler(selected)
	identityH := handler.NewIdentityHandler(users)

	e := echo.New()
	if deps.RateLimit != nil {
		Setup(e, logger, deps.RateLimit)
	} else {
		Setup(e, logger)
	}

	RegisterRoutes(e)
	RegisterAuth(e, authH)
	RegisterPublic(e, classH, userH, selectedH, cache)
	RegisterStudent(e, gate, identityH, selectedH)
	RegisterInstructor(e, gate, classH)
	RegisterAdmin(e, gate, classH, userH)
	return e
}
