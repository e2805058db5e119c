package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/epictutors/epic-tutors-server/internal/apperr"
	"github.com/epictutors/epic-tutors-server/internal/middleware"
	"github.com/epictutors/epic-tutors-server/internal/model"
	"github.com/epictutors/epic-tutors-server/internal/repository"
)

// SelectedClassHandler serves the student's class cart.
type SelectedClassHandler struct {
	selected *repository.SelectedClassRepo
}

func NewSelectedClassHandler(selected *repository.SelectedClassRepo) *SelectedClassHandler {
	return &SelectedClassHandler{selected: selected}
}

// Select handles POST /selectClass.
func (h *SelectedClassHandler) Select(c echo.Context) error {
	var sc model.SelectedClass
	if err := bindAndValidate(c, &sc); err != nil {
		return err
	}
	res, err := h.selected.Create(c.Request().Context(), sc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// List handles GET /selectedClass?email=. Without an email the answer is
// an empty list; asking for someone else's cart is forbidden.
func (h *SelectedClassHandler) List(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusOK, []model.SelectedClass{})
	}
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized(nil)
	}
	if !sameEmail(email, claims.Email) {
		return apperr.Forbidden(errIdentityMismatch)
	}
	out, err := h.selected.ListByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
