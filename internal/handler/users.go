package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/epictutors/epic-tutors-server/internal/apperr"
	"github.com/epictutors/epic-tutors-server/internal/middleware"
	"github.com/epictutors/epic-tutors-server/internal/model"
	"github.com/epictutors/epic-tutors-server/internal/queue"
	"github.com/epictutors/epic-tutors-server/internal/repository"
	"github.com/epictutors/epic-tutors-server/internal/service"
)

// UserHandler serves instructor listings and the admin user endpoints.
type UserHandler struct {
	users     *repository.UserRepo
	publisher service.Publisher
	logger    *zap.Logger
}

func NewUserHandler(users *repository.UserRepo, publisher service.Publisher, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, publisher: publisher, logger: logger}
}

// Instructors handles GET /instructors.
func (h *UserHandler) Instructors(c echo.Context) error {
	out, err := h.users.ListInstructors(c.Request().Context(), false)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// PopularInstructors handles GET /popularInstructors.
func (h *UserHandler) PopularInstructors(c echo.Context) error {
	out, err := h.users.ListInstructors(c.Request().Context(), true)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Users handles GET /users.
func (h *UserHandler) Users(c echo.Context) error {
	out, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// MakeAdmin handles PUT /makeAdmin/:id.
func (h *UserHandler) MakeAdmin(c echo.Context) error { return h.setRole(c, model.RoleAdmin) }

// MakeInstructor handles PUT /makeInstructor/:id.
func (h *UserHandler) MakeInstructor(c echo.Context) error { return h.setRole(c, model.RoleInstructor) }

func (h *UserHandler) setRole(c echo.Context, role model.Role) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return apperr.Invalid("id is required", nil)
	}
	res, err := h.users.SetRole(c.Request().Context(), id, role)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound(fmt.Errorf("user %q", id))
	}
	h.publish(c, queue.AuditEvent{Type: queue.EventRoleChanged, TargetID: id, Role: role.String()})
	return c.JSON(http.StatusOK, res)
}

func (h *UserHandler) publish(c echo.Context, ev queue.AuditEvent) {
	publishAudit(c, h.publisher, h.logger, ev)
}

// publishAudit stamps the actor and publishes ev. Failures are logged only;
// the change has already been committed.
func publishAudit(c echo.Context, p service.Publisher, logger *zap.Logger, ev queue.AuditEvent) {
	if claims, ok := middleware.Identity(c); ok {
		ev.Actor = claims.Email
	}
	if err := p.Publish(context.WithoutCancel(c.Request().Context()), ev); err != nil {
		logger.Warn("audit event not published",
			zap.String("request_id", middleware.RequestID(c)),
			zap.String("event", ev.Type),
			zap.String("target_id", ev.TargetID),
			zap.Error(err))
	}
}
