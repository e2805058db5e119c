package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/epictutors/epic-tutors-server/internal/config"
	"github.com/epictutors/epic-tutors-server/internal/token"
)

func TestNewTokenBucket_DisabledWithoutRedis(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, nil, zap.NewNop())
	c, rec := newContext(httptest.NewRequest(http.MethodGet, "/classes", nil))
	require.NoError(t, mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestBuildRateKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c, _ := newContext(req)
	c.SetPath("/users")

	assert.Equal(t, "rl:ip:10.0.0.7", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c, nil))
	assert.Equal(t, "rl:ip:10.0.0.7:user:anon:route:GET /users",
		buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}, c, nil))

	c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), token.Claims{Email: "a@example.com"})))
	assert.Equal(t, "rl:user:a@example.com", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, c, nil))
}

func TestBuildRateKey_GlobalLimiterSeesBearerIdentity(t *testing.T) {
	codec := token.NewCodec(secret, time.Hour)
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	auth := NewAuthenticator(codec, zap.NewNop())

	var keys []string
	e := echo.New()
	// same position as the limiter: global, ahead of route-level interceptors
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			keys = append(keys, buildRateKey(cfg, c, codec))
			return next(c)
		}
	})
	e.GET("/selectedClass", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, Chain(auth.Authenticate))

	send := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/selectedClass", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send("Bearer "+issue(t, "Kid@Example.com")))
	assert.Equal(t, http.StatusNoContent, send("Bearer "+issue(t, "other@example.com")))
	// rejected by Authenticate; the handler never runs
	assert.NotEqual(t, http.StatusNoContent, send("Bearer forged"))
	assert.NotEqual(t, http.StatusNoContent, send(""))

	assert.Equal(t, []string{
		"rl:user:kid@example.com",
		"rl:user:other@example.com",
		"rl:user:anon",
		"rl:user:anon",
	}, keys)
}

func TestCacheKeyFrom(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	a, _ := newContext(httptest.NewRequest(http.MethodGet, "/classes?x=1", nil))
	a.SetPath("/classes")
	b, _ := newContext(httptest.NewRequest(http.MethodGet, "/classes?x=2", nil))
	b.SetPath("/classes")

	assert.NotEqual(t, cacheKeyFrom(cfg, a), cacheKeyFrom(cfg, b))
	cfg.KeyStrategy = "route"
	assert.Equal(t, cacheKeyFrom(cfg, a), cacheKeyFrom(cfg, b))
	assert.Regexp(t, `^cache:[0-9a-f]{40}$`, cacheKeyFrom(cfg, a))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`[{"name":"Ink"}]`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `[{"name":"Ink"}]`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func TestNewRedisCache_DisabledWithoutRedis(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}, nil, zap.NewNop())
	c, rec := newContext(httptest.NewRequest(http.MethodGet, "/classes", nil))
	require.NoError(t, mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })(c))
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
