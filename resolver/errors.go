package resolver

import (
	"errors"
	"fmt"
)

// ResolutionError reports a failed host resolution. When concurrent lookups
// collapse into one resolver call, the same error reaches every waiter.
type ResolutionError struct {
	Service string
	Message string
	wrapped error
}

func (e *ResolutionError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("resolution error: %s: %s: %v", e.Service, e.Message, e.wrapped)
	}
	return fmt.Sprintf("resolution error: %s: %s", e.Service, e.Message)
}

func (e *ResolutionError) Unwrap() error {
	return e.wrapped
}

// NewResolutionError creates a resolution error for the given service.
func NewResolutionError(service, message string, wrapped error) *ResolutionError {
	return &ResolutionError{
		Service: service,
		Message: message,
		wrapped: wrapped,
	}
}

// IsResolutionError reports whether err is (or wraps) a ResolutionError.
func IsResolutionError(err error) bool {
	var resErr *ResolutionError
	return errors.As(err, &resErr)
}
