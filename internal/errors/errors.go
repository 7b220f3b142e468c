package errors

import (
	"errors"
	"fmt"
)

// Category classifies an error by where it terminated.
type Category string

const (
	// CategoryTransport covers non-2xx statuses and malformed JSON bodies.
	CategoryTransport Category = "transport"

	// CategoryValidation covers input rejected locally before any request.
	CategoryValidation Category = "validation"

	// CategoryApplication covers success:false responses carrying a
	// server-provided message.
	CategoryApplication Category = "application"

	// CategoryProtocol covers malformed client event envelopes.
	CategoryProtocol Category = "protocol"

	// CategoryConfig covers configuration loading failures.
	CategoryConfig Category = "config"
)

// PulseError is a structured error with a stable code and category.
type PulseError struct {
	// Code is a unique error identifier (e.g. "E101").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *PulseError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *PulseError) Unwrap() error {
	return e.Wrapped
}

// New creates a PulseError with the given code, category, and message.
func New(code string, category Category, message string) *PulseError {
	return &PulseError{Code: code, Category: category, Message: message}
}

// Wrap creates a PulseError wrapping an underlying error.
func Wrap(code string, category Category, message string, err error) *PulseError {
	return &PulseError{Code: code, Category: category, Message: message, Wrapped: err}
}

// TransportError reports a failed exchange with the server API: a non-2xx
// status, a network failure, or a response body that is not valid JSON.
// The caller's continuation never receives a value when one of these occurs.
type TransportError struct {
	// Endpoint is the request path, e.g. "/ajax/like-post/".
	Endpoint string

	// StatusCode is the HTTP status, or 0 for network/parse failures.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport: %s returned status %d", e.Endpoint, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("transport: %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("transport: %s failed", e.Endpoint)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ValidationError reports input rejected locally; no request was sent.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
	}
	return "validation: " + e.Message
}

// ApplicationError reports a well-formed response with success:false.
// Message holds the server-provided text when present.
type ApplicationError struct {
	Endpoint string
	Message  string
}

// Error implements the error interface.
func (e *ApplicationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("application: %s: %s", e.Endpoint, e.Message)
	}
	return fmt.Sprintf("application: %s rejected the request", e.Endpoint)
}

// UserMessage returns the text to surface in a notification: the
// server-provided message when present, else the given fallback.
func (e *ApplicationError) UserMessage(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsApplication reports whether err is (or wraps) an ApplicationError.
func IsApplication(err error) bool {
	var ae *ApplicationError
	return errors.As(err, &ae)
}
