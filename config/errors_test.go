package config

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigError
		expected string
	}{
		{
			name: "full_error",
			err: &ConfigError{
				Category: "invalid",
				Field:    "timeout",
				Message:  "must not be negative",
				Action:   "use a positive duration",
			},
			expected: "config_invalid: timeout must not be negative use a positive duration",
		},
		{
			name: "minimal_error",
			err: &ConfigError{
				Category: "missing",
				Field:    "target",
			},
			expected: "config_missing: target",
		},
		{
			name: "with_details",
			err: &ConfigError{
				Category: "invalid",
				Field:    "retry.statuspatterns",
				Message:  "bad pattern",
				Details:  []string{"got: 5x", "want: 5xx"},
			},
			expected: "config_invalid: retry.statuspatterns bad pattern got: 5x; want: 5xx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestConfigErrorConstructors(t *testing.T) {
	t.Run("missing_field", func(t *testing.T) {
		err := NewMissingFieldError("target", "set a host or a service name and env")
		assert.Equal(t, "missing", err.Category)
		assert.Contains(t, err.Error(), "required")
		assert.Contains(t, err.Error(), "set a host or a service name and env")
	})

	t.Run("invalid_field_with_options", func(t *testing.T) {
		err := NewInvalidFieldError("backoff.strategy", "unknown strategy", []string{"exponential", "constant"})
		assert.Equal(t, "invalid", err.Category)
		assert.Contains(t, err.Error(), "must be one of: exponential, constant")
	})

	t.Run("ambiguous_field", func(t *testing.T) {
		err := NewAmbiguousFieldError("service_name")
		assert.Equal(t, "ambiguous", err.Category)
		assert.Contains(t, err.Error(), "both template and instance")
	})

	t.Run("unknown_key", func(t *testing.T) {
		err := NewUnknownKeyError("retry.statuspattern")
		assert.Equal(t, "unknown", err.Category)
		assert.Equal(t, "retry.statuspattern", err.Field)
	})
}

func TestIsConfigError(t *testing.T) {
	assert.False(t, IsConfigError(nil))
	assert.False(t, IsConfigError(errors.New("plain")))
	assert.True(t, IsConfigError(NewValidationError("f", "m")))
	assert.True(t, IsConfigError(fmt.Errorf("wrapped: %w", NewValidationError("f", "m"))))
}

func TestConfigErrorUnwrap(t *testing.T) {
	err := NewValidationError("f", "m")
	assert.Nil(t, err.Unwrap())
}
