package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/epictutors/epic-tutors-server/internal/apperr"
	"github.com/epictutors/epic-tutors-server/internal/token"
)

var (
	errMissingHeader = errors.New("missing authorization header")
	errBadScheme     = errors.New("authorization header is not a bearer credential")
	errEmptyToken    = errors.New("empty bearer credential")
)

// Verifier checks a raw session token and returns its claims.
type Verifier interface {
	Verify(raw string) (token.Claims, error)
}

// Authenticator validates the bearer token on each request and attaches the
// decoded claims to the request identity context.
type Authenticator struct {
	verifier Verifier
	logger   *zap.Logger
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(v Verifier, logger *zap.Logger) *Authenticator {
	return &Authenticator{verifier: v, logger: logger}
}

// Authenticate is the authentication interceptor. Every failure, whether a
// missing header, a malformed header, a bad signature or an expired token,
// becomes the same Unauthorized error; the precise reason is only logged.
func (a *Authenticator) Authenticate(c echo.Context) error {
	raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if err == nil {
		var claims token.Claims
		claims, err = a.verifier.Verify(raw)
		if err == nil {
			c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), claims)))
			return nil
		}
	}
	a.logger.Warn("authentication rejected",
		zap.String("request_id", RequestID(c)),
		zap.String("path", c.Path()),
		zap.String("reason", reason(err)),
		zap.Error(err))
	return apperr.Unauthorized(err)
}

// Middleware exposes Authenticate as a standalone Echo middleware.
func (a *Authenticator) Middleware() echo.MiddlewareFunc { return Chain(a.Authenticate) }

// bearerToken extracts the credential from an Authorization header value.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	scheme, cred, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", errBadScheme
	}
	cred = strings.TrimSpace(cred)
	if cred == "" {
		return "", errEmptyToken
	}
	return cred, nil
}

// reason is a short label for logs.
func reason(err error) string {
	switch {
	case errors.Is(err, errMissingHeader):
		return "missing_header"
	case errors.Is(err, errBadScheme), errors.Is(err, errEmptyToken), errors.Is(err, token.ErrMalformedToken):
		return "malformed"
	case errors.Is(err, token.ErrBadSignature):
		return "bad_signature"
	case errors.Is(err, token.ErrExpired):
		return "expired"
	}
	return "invalid"
}
