package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/epictutors/epic-tutors-server/internal/apperr"
	"github.com/epictutors/epic-tutors-server/internal/middleware"
	"github.com/epictutors/epic-tutors-server/internal/model"
)

var errIdentityMismatch = errors.New("path email does not match token email")

// IdentityHandler answers "does the caller hold role X" questions. The
// caller may only ask about itself.
type IdentityHandler struct {
	roles middleware.RoleLookup
}

func NewIdentityHandler(roles middleware.RoleLookup) *IdentityHandler {
	return &IdentityHandler{roles: roles}
}

func (h *IdentityHandler) IsStudent(c echo.Context) error { return h.check(c, model.RoleStudent) }

func (h *IdentityHandler) IsInstructor(c echo.Context) error { return h.check(c, model.RoleInstructor) }

func (h *IdentityHandler) IsAdmin(c echo.Context) error { return h.check(c, model.RoleAdmin) }

// check responds {<role>: bool}. A path email other than the token email
// ends the request with 403 before any lookup.
func (h *IdentityHandler) check(c echo.Context, want model.Role) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized(nil)
	}
	if !sameEmail(c.Param("email"), claims.Email) {
		return apperr.Forbidden(errIdentityMismatch)
	}
	got, err := h.roles.RoleOf(c.Request().Context(), claims.Email)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{want.String(): got == want})
}

// sameEmail compares addresses the way the user store keys them: trimmed
// and case-insensitive.
func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
