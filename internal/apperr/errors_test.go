package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("token expired")
	err := fmt.Errorf("authenticate: %w", Unauthorized(cause))

	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden(nil)))
}

func TestErrorString(t *testing.T) {
	err := Unauthorized(errors.New("role mismatch"))
	assert.Equal(t, MsgUnauthorized, err.Message)
	assert.Contains(t, err.Error(), "role mismatch")
	assert.Equal(t, "forbidden: forbidden access", Forbidden(nil).Error())
}
