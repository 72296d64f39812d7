// Package apperror defines the domain error taxonomy shared by the service,
// repository, and handler layers.
//
// Services return these errors; the HTTP layer translates them to status codes
// in handler/response.go. Keeping the taxonomy here means no layer below the
// handlers ever mentions HTTP.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstream     = errors.New("upstream error")
)

type AppError struct {
	Err     error  // sentinel category (ErrNotFound, ErrValidation, ...)
	Message string // human-readable error message
	Field   string // optional: field causing a validation error

	// StatusCode and Body are set only for upstream errors. StatusCode is the
	// HTTP status the remote service returned and is propagated verbatim to
	// the client; Body is the raw remote error body.
	StatusCode int
	Body       string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound covers both "no such record" and "record owned by someone else".
// The two cases are deliberately indistinguishable so that probing another
// user's snippet IDs reveals nothing about their existence.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthorized returns the generic authentication failure. Login handlers use
// the same message for "no such user", "OAuth-only account", and "wrong
// password" to avoid account enumeration.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Upstream wraps a non-success response from the remote execution service.
// statusCode and body are propagated to the client as-is.
func Upstream(statusCode int, body string) *AppError {
	return &AppError{
		Err:        ErrUpstream,
		Message:    "error from code execution service",
		StatusCode: statusCode,
		Body:       body,
	}
}
