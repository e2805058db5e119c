package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/epictutors/epic-tutors-server/internal/apperr"
	"github.com/epictutors/epic-tutors-server/internal/model"
	"github.com/epictutors/epic-tutors-server/internal/queue"
	"github.com/epictutors/epic-tutors-server/internal/repository"
	"github.com/epictutors/epic-tutors-server/internal/service"
)

// ClassHandler serves class listings, instructor class management and
// admin review.
type ClassHandler struct {
	classes   *repository.ClassRepo
	publisher service.Publisher
	logger    *zap.Logger
}

func NewClassHandler(classes *repository.ClassRepo, publisher service.Publisher, logger *zap.Logger) *ClassHandler {
	return &ClassHandler{classes: classes, publisher: publisher, logger: logger}
}

// Approved handles GET /classes.
func (h *ClassHandler) Approved(c echo.Context) error {
	out, err := h.classes.ListApproved(c.Request().Context(), false)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Popular handles GET /popularClasses.
func (h *ClassHandler) Popular(c echo.Context) error {
	out, err := h.classes.ListApproved(c.Request().Context(), true)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// All handles GET /allclasses.
func (h *ClassHandler) All(c echo.Context) error {
	out, err := h.classes.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Add handles POST /addClass. New classes always start pending review.
func (h *ClassHandler) Add(c echo.Context) error {
	var cls model.Class
	if err := bindAndValidate(c, &cls); err != nil {
		return err
	}
	res, err := h.classes.Create(c.Request().Context(), cls)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// ByInstructor handles GET /instructorClasses?email=.
func (h *ClassHandler) ByInstructor(c echo.Context) error {
	email := strings.TrimSpace(c.QueryParam("email"))
	if email == "" {
		return c.JSON(http.StatusOK, []model.Class{})
	}
	out, err := h.classes.ListByInstructor(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

type reviewReq struct {
	Feedback string `json:"feedback"`
}

// Approve handles PUT /approveClass/:id.
func (h *ClassHandler) Approve(c echo.Context) error { return h.review(c, model.ClassApproved) }

// Reject handles PUT /rejectClass/:id.
func (h *ClassHandler) Reject(c echo.Context) error { return h.review(c, model.ClassRejected) }

func (h *ClassHandler) review(c echo.Context, status model.ClassStatus) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return apperr.Invalid("id is required", nil)
	}
	var req reviewReq
	// an empty body is allowed; feedback is optional
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return apperr.Invalid("invalid request body", err)
		}
	}
	res, err := h.classes.Review(c.Request().Context(), id, status, req.Feedback)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound(fmt.Errorf("class %q", id))
	}
	publishAudit(c, h.publisher, h.logger, queue.AuditEvent{
		Type:     queue.EventClassReviewed,
		TargetID: id,
		Status:   string(status),
		Feedback: req.Feedback,
	})
	return c.JSON(http.StatusOK, res)
}
