package client

import (
	"errors"
	"fmt"
)

// ClientError represents different types of dispatch errors
type ClientError interface {
	error
	Type() ErrorType
}

// ErrorType defines the category of client error
type ErrorType string

const (
	TypeTransport  ErrorType = "transport"
	TypeStatus     ErrorType = "status"
	TypeDomain     ErrorType = "domain"
	TypeValidation ErrorType = "validation"
)

// ErrorKind classifies a transport failure for retry matching.
type ErrorKind string

const (
	KindConnection ErrorKind = "connection"
	KindTimeout    ErrorKind = "timeout"
	KindDNS        ErrorKind = "dns"
	KindTLS        ErrorKind = "tls"
	KindOther      ErrorKind = "other"
)

// TransportError represents a connection-level failure. Kind drives retry
// matching; the underlying error stays reachable through Unwrap.
type TransportError struct {
	Kind    ErrorKind
	message string
	wrapped error
}

func (e *TransportError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("transport error (%s): %s: %v", e.Kind, e.message, e.wrapped)
	}
	return fmt.Sprintf("transport error (%s): %s", e.Kind, e.message)
}

func (e *TransportError) Type() ErrorType {
	return TypeTransport
}

func (e *TransportError) Unwrap() error {
	return e.wrapped
}

// NewTransportError creates a transport error of the given kind
func NewTransportError(kind ErrorKind, message string, wrapped error) *TransportError {
	return &TransportError{
		Kind:    kind,
		message: message,
		wrapped: wrapped,
	}
}

// StatusError marks a response whose status matched a configured retry
// pattern. It exists only while the retry loop runs; when the budget is
// exhausted the dispatcher unwraps it and hands the offending response
// back to the caller.
type StatusError struct {
	Response *Response
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("retriable status %d", e.Response.StatusCode)
}

func (e *StatusError) Type() ErrorType {
	return TypeStatus
}

// NewStatusError creates a retriable status error carrying the response
func NewStatusError(resp *Response) *StatusError {
	return &StatusError{Response: resp}
}

// DomainError is an application-level error reconstructed from a structured
// error payload whose tag was registered on the client.
type DomainError struct {
	Tag        string
	StatusCode int
	Message    string
	Payload    map[string]any
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("domain error %s (status: %d): %s", e.Tag, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("domain error %s (status: %d)", e.Tag, e.StatusCode)
}

func (e *DomainError) Type() ErrorType {
	return TypeDomain
}

// validationError represents client misuse errors
type validationError struct {
	message string
	field   string
}

func (e *validationError) Error() string {
	if e.field != "" {
		return fmt.Sprintf("validation error: %s (field: %s)", e.message, e.field)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

func (e *validationError) Type() ErrorType {
	return TypeValidation
}

// NewValidationError creates a new validation error
func NewValidationError(message, field string) ClientError {
	return &validationError{
		message: message,
		field:   field,
	}
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// IsDomainTag checks if an error is a domain error with a specific tag
func IsDomainTag(err error, tag string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Tag == tag
	}
	return false
}

// IsSuccessStatus checks if a status code represents success (2xx)
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
