// Package apperrors is the error taxonomy of the billing workflow. Every
// failure that reaches a client is an *Error carrying its Kind, the HTTP
// status it maps to, and a message safe to return to the caller.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAuthentication = errors.New("authentication required")
	ErrAuthorization  = errors.New("not authorized")
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrDownstream     = errors.New("downstream error")
	ErrConnectivity   = errors.New("connectivity error")
)

type Kind string

const (
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
	KindValidation     Kind = "validation"
	KindNotFound       Kind = "not_found"
	KindDownstream     Kind = "downstream"
	KindConnectivity   Kind = "connectivity"
)

type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%d): %s: %v", e.Kind, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets callers match an *Error against the package sentinels by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrAuthentication:
		return e.Kind == KindAuthentication
	case ErrAuthorization:
		return e.Kind == KindAuthorization
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrDownstream:
		return e.Kind == KindDownstream
	case ErrConnectivity:
		return e.Kind == KindConnectivity
	}
	return false
}

func NewAuthenticationError() *Error {
	return &Error{
		Kind:       KindAuthentication,
		StatusCode: http.StatusUnauthorized,
		Message:    "Authentication required",
	}
}

func NewAuthorizationError() *Error {
	return &Error{
		Kind:       KindAuthorization,
		StatusCode: http.StatusForbidden,
		Message:    "Not authorized to manage billing",
	}
}

func NewValidationError(err error, message string) *Error {
	return &Error{
		Kind:       KindValidation,
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Err:        err,
	}
}

func NewNotFoundError(message string) *Error {
	return &Error{
		Kind:       KindNotFound,
		StatusCode: http.StatusNotFound,
		Message:    message,
	}
}

// NewDownstreamError keeps the collaborator's status and message verbatim.
func NewDownstreamError(statusCode int, message string) *Error {
	return &Error{
		Kind:       KindDownstream,
		StatusCode: statusCode,
		Message:    message,
	}
}

func NewConnectivityError(err error) *Error {
	return &Error{
		Kind:       KindConnectivity,
		StatusCode: http.StatusInternalServerError,
		Message:    "Failed to connect to user management service",
		Err:        err,
	}
}

// From extracts the *Error in err's chain, if any.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
