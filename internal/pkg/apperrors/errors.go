// Package apperrors defines the application error types used for error handling
package apperrors

import (
	"errors"
	"fmt"
)

// General errors
var (
	// ErrInternalServer represents an unexpected internal failure
	ErrInternalServer = errors.New("internal server error")
	// ErrValidation represents an input validation failure
	ErrValidation = errors.New("validation error")
	// ErrResourceNotFound indicates the requested resource does not exist
	ErrResourceNotFound = errors.New("resource not found")
	// ErrResourceAlreadyExists indicates a uniqueness conflict
	ErrResourceAlreadyExists = errors.New("resource already exists")
)

// Authentication errors
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)

// Authorization errors
var (
	// ErrPermissionDenied indicates the caller's role cannot see the resource
	ErrPermissionDenied = errors.New("permission denied")
	// ErrModifyForbidden indicates the caller may read but not change the resource
	ErrModifyForbidden = errors.New("modification not allowed for this role")
)

// Check-in errors
var (
	// ErrCheckinBadToken indicates the presented QR token does not match the school's
	ErrCheckinBadToken = errors.New("check-in token is not valid")
	// ErrCheckinOutOfRange indicates the reported position is outside the school zone
	ErrCheckinOutOfRange = errors.New("position is outside the school zone")
	// ErrCheckinOutsideWindow indicates the check-in arrived outside the allowed hours
	ErrCheckinOutsideWindow = errors.New("check-in is outside the allowed time window")
	// ErrCheckinNotStudent indicates the caller has no student profile
	ErrCheckinNotStudent = errors.New("only students can check in")
)

// CustomError wraps a sentinel error with a context message.
type CustomError struct {
	Err     error
	Message string
}

func (e *CustomError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped sentinel so errors.Is keeps working.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// New creates a CustomError wrapping the given sentinel.
func New(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

// Newf creates a CustomError with a formatted message.
func Newf(err error, format string, args ...interface{}) *CustomError {
	return &CustomError{Err: err, Message: fmt.Sprintf(format, args...)}
}
