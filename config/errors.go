package config

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError represents a configuration error with actionable guidance.
// All error messages are lowercase following Go conventions.
//
//nolint:revive // ConfigError is intentionally named for clarity in external API usage
type ConfigError struct {
	Category string   // error category: "missing", "invalid", "ambiguous", "unknown"
	Field    string   // config field path (e.g., "retry.statuspatterns", "backoff.stopafter")
	Message  string   // user-friendly error message (lowercase)
	Action   string   // actionable instruction (lowercase)
	Details  []string // additional details or examples
}

// Error implements the error interface with lowercase formatting.
func (e *ConfigError) Error() string {
	var parts []string

	if e.Category != "" {
		parts = append(parts, fmt.Sprintf("config_%s:", e.Category))
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Action != "" {
		parts = append(parts, e.Action)
	}

	if len(e.Details) > 0 {
		parts = append(parts, strings.Join(e.Details, "; "))
	}

	return strings.Join(parts, " ")
}

// Unwrap returns nil to maintain compatibility with error wrapping.
// ConfigError is a leaf error that contains all necessary context.
func (e *ConfigError) Unwrap() error {
	return nil
}

// NewMissingFieldError creates an error for a required missing configuration field.
func NewMissingFieldError(field, action string) *ConfigError {
	return &ConfigError{
		Category: "missing",
		Field:    field,
		Message:  "required",
		Action:   action,
	}
}

// NewInvalidFieldError creates an error for an invalid configuration value.
func NewInvalidFieldError(field, message string, validOptions []string) *ConfigError {
	err := &ConfigError{
		Category: "invalid",
		Field:    field,
		Message:  message,
	}

	if len(validOptions) > 0 {
		err.Action = fmt.Sprintf("must be one of: %s", strings.Join(validOptions, ", "))
	}

	return err
}

// NewAmbiguousFieldError creates an error for an identity field declared at
// both template and instance level.
func NewAmbiguousFieldError(field string) *ConfigError {
	return &ConfigError{
		Category: "ambiguous",
		Field:    field,
		Message:  "declared at both template and instance level",
		Action:   "declare it in exactly one place",
	}
}

// NewUnknownKeyError creates an error for a configuration key outside the
// recognized set.
func NewUnknownKeyError(key string) *ConfigError {
	return &ConfigError{
		Category: "unknown",
		Field:    key,
		Message:  "unrecognized configuration key",
		Action:   "remove it or fix the spelling",
	}
}

// NewValidationError creates a general validation error with custom message.
func NewValidationError(field, message string) *ConfigError {
	return &ConfigError{
		Category: "invalid",
		Field:    field,
		Message:  message,
	}
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}
