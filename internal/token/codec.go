// Package token issues and verifies the signed session tokens presented as
// bearer credentials. Tokens are HS256 JWTs carrying the caller's identity
// claims plus issued-at, expiry and a unique token id. Nothing is stored
// server side; a token is valid until its embedded expiry.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is the lifetime of a session token.
const DefaultTTL = time.Hour

// Verification failures. Callers at the HTTP boundary collapse all of them
// into a single "unauthorized access" response; the distinct values exist
// for logging.
var (
	ErrMalformedToken = errors.New("malformed token")
	ErrBadSignature   = errors.New("bad token signature")
	ErrExpired        = errors.New("token expired")
	ErrMissingEmail   = errors.New("claims must carry an email")
)

// Claims are the identity attributes embedded in a token at issuance time.
// They are never mutated after issuance; Verify reconstructs them.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Photo string `json:"photo,omitempty"`
}

// sessionClaims is the wire form: identity claims plus the registered
// iat/exp/jti claims.
type sessionClaims struct {
	Claims
	jwt.RegisteredClaims
}

// Issued is a signed token together with its absolute expiry.
type Issued struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"-"`
}

// Codec signs and verifies tokens with a shared secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customises a Codec.
type Option func(*Codec)

// WithClock overrides the time source used for issued-at, expiry and
// verification.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec builds a Codec. A non-positive ttl falls back to DefaultTTL.
func NewCodec(secret string, ttl time.Duration, opts ...Option) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL reports the lifetime of tokens issued by this codec.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs a token embedding claims with expiry now+ttl.
func (c *Codec) Issue(claims Claims) (Issued, error) {
	if strings.TrimSpace(claims.Email) == "" {
		return Issued{}, ErrMissingEmail
	}
	now := c.now().UTC()
	exp := now.Add(c.ttl)
	sc := sessionClaims{
		Claims: claims,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sc).SignedString(c.secret)
	if err != nil {
		return Issued{}, err
	}
	return Issued{Token: signed, ExpiresAt: exp}, nil
}

// Verify parses raw, checks its signature and expiry, and returns the
// claims supplied at issuance. The returned error wraps exactly one of
// ErrMalformedToken, ErrBadSignature or ErrExpired.
func (c *Codec) Verify(raw string) (Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return Claims{}, ErrMalformedToken
	}
	var sc sessionClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	_, err := parser.ParseWithClaims(raw, &sc, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}
	return sc.Claims, nil
}

// classify maps jwt library errors onto the codec's verification kinds.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return errors.Join(ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return errors.Join(ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return errors.Join(ErrExpired, err)
	default:
		// missing exp, bad claims shape and friends
		return errors.Join(ErrMalformedToken, err)
	}
}

// Issue signs claims with secret for ttl using a one-off codec.
func Issue(claims Claims, secret string, ttl time.Duration) (Issued, error) {
	return NewCodec(secret, ttl).Issue(claims)
}

// Verify checks raw against secret using a one-off codec.
func Verify(raw, secret string) (Claims, error) {
	return NewCodec(secret, DefaultTTL).Verify(raw)
}
