package store

import (
	"fmt"
	"net/http"
)

// Error is a store error with an HTTP status code.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithMessage returns a new error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		Code:    e.Code,
		Message: msg,
		Err:     e.Err,
	}
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
	}

	ErrSessionExpired = &Error{
		Code:    http.StatusUnauthorized,
		Message: "session expired",
	}
)

// Typed not-found sentinels consulted by services and handlers.
var (
	ErrUserNotFound     = ErrNotFound.WithMessage("user not found")
	ErrSessionNotFound  = ErrNotFound.WithMessage("session not found")
	ErrHistoryNotFound  = ErrNotFound.WithMessage("song history not found")
	ErrReactionNotFound = ErrNotFound.WithMessage("reaction not found")
	ErrUserExists       = ErrAlreadyExists.WithMessage("user already exists")
)
