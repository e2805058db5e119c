package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/epictutors/epic-tutors-server/internal/apperr"
	"github.com/epictutors/epic-tutors-server/internal/model"
)

var errNoIdentity = errors.New("role check ran without an authenticated identity")

// RoleLookup resolves the stored role of a user by email. A missing user
// resolves to model.RoleUnset with a nil error.
type RoleLookup interface {
	RoleOf(ctx context.Context, email string) (model.Role, error)
}

// RoleAuthorizer gates requests on the role stored in the identity store.
// The role is looked up on every request, never taken from the token, so a
// role change applies to the very next request.
type RoleAuthorizer struct {
	users  RoleLookup
	logger *zap.Logger
}

func NewRoleAuthorizer(users RoleLookup, logger *zap.Logger) *RoleAuthorizer {
	return &RoleAuthorizer{users: users, logger: logger}
}

// Require returns an interceptor admitting only callers whose stored role
// is want. It must run after Authenticator.Authenticate.
func (a *RoleAuthorizer) Require(want model.Role) Interceptor {
	if want == model.RoleUnset {
		panic("middleware: Require needs a concrete role")
	}
	return func(c echo.Context) error {
		claims, ok := Identity(c)
		if !ok {
			a.logger.Error("role check without identity",
				zap.String("request_id", RequestID(c)),
				zap.String("path", c.Path()))
			return apperr.Unauthorized(errNoIdentity)
		}

		got, err := a.users.RoleOf(c.Request().Context(), claims.Email)
		if err != nil {
			a.logger.Error("identity store lookup failed",
				zap.String("request_id", RequestID(c)),
				zap.String("email", claims.Email),
				zap.Error(err))
			return apperr.Internal(fmt.Errorf("role lookup: %w", err))
		}
		if got != want {
			a.logger.Warn("role rejected",
				zap.String("request_id", RequestID(c)),
				zap.String("email", claims.Email),
				zap.String("required_role", want.String()),
				zap.String("stored_role", got.String()))
			return apperr.Unauthorized(fmt.Errorf("role %q does not satisfy %q", got, want))
		}
		return nil
	}
}

// Admin gates on the admin role.
func (a *RoleAuthorizer) Admin() Interceptor { return a.Require(model.RoleAdmin) }

// Instructor gates on the instructor role.
func (a *RoleAuthorizer) Instructor() Interceptor { return a.Require(model.RoleInstructor) }
