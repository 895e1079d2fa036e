package resolver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolutionErrorFormat(t *testing.T) {
	plain := NewResolutionError(testService, "naming service returned status 503", nil)
	assert.Equal(t, "resolution error: billing: naming service returned status 503", plain.Error())

	wrapped := NewResolutionError(testService, "naming service unreachable", errors.New("connection refused"))
	assert.Equal(t, "resolution error: billing: naming service unreachable: connection refused", wrapped.Error())
}

func TestResolutionErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewResolutionError(testService, "naming service unreachable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Nil(t, NewResolutionError(testService, "no host", nil).Unwrap())
}

func TestIsResolutionError(t *testing.T) {
	err := NewResolutionError(testService, "no host", nil)

	assert.True(t, IsResolutionError(err))
	assert.True(t, IsResolutionError(fmt.Errorf("open client: %w", err)))
	assert.False(t, IsResolutionError(errors.New("plain")))
	assert.False(t, IsResolutionError(nil))
}
