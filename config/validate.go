package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// statusPatternRe accepts an exact code ("503"), a two-digit family ("50x"),
// or a one-digit family ("5xx").
var statusPatternRe = regexp.MustCompile(`^(\d{3}|\d{2}x|\dxx)$`)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()

	// Register custom validators
	err := v.RegisterValidation("status_pattern", validateStatusPattern)
	if err != nil {
		return nil
	}

	return v
}

func validateStatusPattern(fl validator.FieldLevel) bool {
	return statusPatternRe.MatchString(fl.Field().String())
}

// Normalize lowercases pattern and kind values and fills derived fields
// (burst defaults to limit). Loaders call it before Validate; hand-built
// configs go through it at client construction.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	for i, p := range cfg.Retry.StatusPatterns {
		cfg.Retry.StatusPatterns[i] = strings.ToLower(strings.TrimSpace(p))
	}

	for i, kind := range cfg.Retry.ErrorKinds {
		cfg.Retry.ErrorKinds[i] = strings.ToLower(strings.TrimSpace(kind))
	}

	cfg.Backoff.Strategy = strings.ToLower(strings.TrimSpace(cfg.Backoff.Strategy))

	if cfg.Rate.Limit > 0 && cfg.Rate.Burst <= 0 {
		cfg.Rate.Burst = cfg.Rate.Limit
	}
}

// Validate checks the config against the struct rules and reports the first
// violation as a ConfigError. Zero values pass; defaults fill them later.
func Validate(cfg *Config) error {
	if cfg == nil {
		return NewValidationError("config", "config is nil")
	}

	if structValidator == nil {
		return NewValidationError("config", "validator unavailable")
	}

	if err := structValidator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fe := validationErrors[0]
			return NewInvalidFieldError(fieldPath(fe), fieldMessage(fe), nil)
		}
		return err
	}

	return nil
}

// fieldPath renders "Config.Retry.StatusPatterns[1]" as
// "retry.statuspatterns[1]".
func fieldPath(fe validator.FieldError) string {
	path := fe.Namespace()
	if i := strings.Index(path, "."); i >= 0 {
		path = path[i+1:]
	}
	return strings.ToLower(path)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "status_pattern":
		return fmt.Sprintf("invalid status pattern %q (use an exact code like \"503\", or a family like \"50x\" or \"5xx\")", fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return "must not be negative"
	default:
		return "failed validation"
	}
}
