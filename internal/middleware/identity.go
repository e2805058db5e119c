package middleware

// identity.go manages the request identity context: the decoded token
// claims attached by Authenticate and read by role checks and handlers. It
// lives in the request's context.Context so it is scoped to one request.

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/epictutors/epic-tutors-server/internal/token"
)

type contextKey string

const (
	identityKey  contextKey = "identity"
	requestIDKey contextKey = "request_id"
)

// WithIdentity returns a copy of ctx carrying claims.
func WithIdentity(ctx context.Context, claims token.Claims) context.Context {
	return context.WithValue(ctx, identityKey, claims)
}

// IdentityFromContext returns the claims attached by Authenticate.
func IdentityFromContext(ctx context.Context) (token.Claims, bool) {
	claims, ok := ctx.Value(identityKey).(token.Claims)
	return claims, ok
}

// Identity is IdentityFromContext for an Echo request.
func Identity(c echo.Context) (token.Claims, bool) {
	return IdentityFromContext(c.Request().Context())
}

// RequestID returns the id assigned by the RequestID middleware, or "".
func RequestID(c echo.Context) string {
	if v, ok := c.Request().Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// currentUser identifies the caller for rate limiting. Limiters run ahead
// of the route-level Authenticate interceptor, so when no identity is
// attached yet the bearer credential is verified here. It returns "anon"
// when there is no valid credential.
func currentUser(c echo.Context, v Verifier) string {
	if claims, ok := Identity(c); ok && claims.Email != "" {
		return strings.ToLower(claims.Email)
	}
	if v == nil {
		return "anon"
	}
	raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return "anon"
	}
	claims, err := v.Verify(raw)
	if err != nil || claims.Email == "" {
		return "anon"
	}
	return strings.ToLower(claims.Email)
}
