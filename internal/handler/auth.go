package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/epictutors/epic-tutors-server/internal/model"
	"github.com/epictutors/epic-tutors-server/internal/repository"
	"github.com/epictutors/epic-tutors-server/internal/store"
	"github.com/epictutors/epic-tutors-server/internal/token"
)

// Issuer signs session tokens.
type Issuer interface {
	Issue(claims token.Claims) (token.Issued, error)
}

// AuthHandler serves token issuance and user registration. Identity proof
// happens upstream at the identity provider; these endpoints trust the
// claims they are handed.
type AuthHandler struct {
	tokens Issuer
	users  *repository.UserRepo
	logger *zap.Logger
}

func NewAuthHandler(tokens Issuer, users *repository.UserRepo, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{tokens: tokens, users: users, logger: logger}
}

type issueReq struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

type issueResp struct {
	Token string `json:"token"`
}

// IssueToken handles POST /jwt.
func (h *AuthHandler) IssueToken(c echo.Context) error {
	var req issueReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	// stored users are keyed by the lower-cased address
	email := strings.ToLower(strings.TrimSpace(req.Email))
	issued, err := h.tokens.Issue(token.Claims{Email: email, Name: req.Name, Photo: req.Photo})
	if err != nil {
		return err
	}
	h.logger.Debug("token issued", zap.String("email", email), zap.Time("expires_at", issued.ExpiresAt))
	return c.JSON(http.StatusOK, issueResp{Token: issued.Token})
}

type addUserReq struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
	Photo string `json:"photo"`
}

type messageResp struct {
	Message string `json:"message"`
}

// AddUser handles POST /adduser. Every new user starts as a student; only
// an admin can promote them.
func (h *AuthHandler) AddUser(c echo.Context) error {
	var req addUserReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.users.Create(c.Request().Context(), model.User{
		Name:  req.Name,
		Email: req.Email,
		Photo: req.Photo,
		Role:  model.RoleStudent,
	})
	if errors.Is(err, repository.ErrUserExists) || errors.Is(err, store.ErrDuplicateKey) {
		return c.JSON(http.StatusOK, messageResp{Message: "user already exists"})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
