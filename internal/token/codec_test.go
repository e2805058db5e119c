package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-used-only-in-unit-tests"

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestCodec_RoundTrip(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	claims := Claims{Email: "student@example.com", Name: "Ada", Photo: "https://img.example.com/ada.png"}

	issued, err := NewCodec(testSecret, time.Hour, WithClock(fixedClock(issuedAt))).Issue(claims)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(time.Hour), issued.ExpiresAt)
	assert.Len(t, strings.Split(issued.Token, "."), 3)

	verifier := NewCodec(testSecret, time.Hour, WithClock(fixedClock(issuedAt.Add(59*time.Minute))))
	got, err := verifier.Verify(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, claims, got)
}

func TestCodec_WrongSecretIsBadSignature(t *testing.T) {
	issued, err := Issue(Claims{Email: "a@example.com"}, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = Verify(issued.Token, "another-secret")
	assert.ErrorIs(t, err, ErrBadSignature)
	assert.NotErrorIs(t, err, ErrExpired)
}

func TestCodec_ExpiredAfterTTL(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issued, err := NewCodec(testSecret, time.Hour, WithClock(fixedClock(issuedAt))).Issue(Claims{Email: "a@example.com"})
	require.NoError(t, err)

	late := NewCodec(testSecret, time.Hour, WithClock(fixedClock(issuedAt.Add(time.Hour+time.Second))))
	_, err = late.Verify(issued.Token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestCodec_Malformed(t *testing.T) {
	c := NewCodec(testSecret, time.Hour)
	for _, raw := range []string{"", "   ", "not-a-jwt", "a.b", "a.b.c"} {
		_, err := c.Verify(raw)
		assert.ErrorIs(t, err, ErrMalformedToken, "raw=%q", raw)
	}
}

func TestCodec_RejectsOtherAlgorithms(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"email": "a@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewCodec(testSecret, time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestCodec_RequiresExpiry(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "a@example.com"})
	raw, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewCodec(testSecret, time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestCodec_DistinctTokensBothValid(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	claims := Claims{Email: "a@example.com"}

	first, err := NewCodec(testSecret, time.Hour, WithClock(fixedClock(start))).Issue(claims)
	require.NoError(t, err)
	second, err := NewCodec(testSecret, time.Hour, WithClock(fixedClock(start.Add(10*time.Minute)))).Issue(claims)
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	at := NewCodec(testSecret, time.Hour, WithClock(fixedClock(start.Add(30*time.Minute))))
	_, err = at.Verify(first.Token)
	assert.NoError(t, err)
	_, err = at.Verify(second.Token)
	assert.NoError(t, err)

	// first expires at start+60m, second at start+70m
	later := NewCodec(testSecret, time.Hour, WithClock(fixedClock(start.Add(65*time.Minute))))
	_, err = later.Verify(first.Token)
	assert.ErrorIs(t, err, ErrExpired)
	_, err = later.Verify(second.Token)
	assert.NoError(t, err)
}

func TestCodec_SameInstantStillDistinct(t *testing.T) {
	c := NewCodec(testSecret, time.Hour, WithClock(fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))))
	a, err := c.Issue(Claims{Email: "a@example.com"})
	require.NoError(t, err)
	b, err := c.Issue(Claims{Email: "a@example.com"})
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestCodec_IssueRequiresEmail(t *testing.T) {
	_, err := NewCodec(testSecret, time.Hour).Issue(Claims{Name: "nobody"})
	assert.ErrorIs(t, err, ErrMissingEmail)
}

func TestNewCodec_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewCodec(testSecret, 0).TTL())
}
