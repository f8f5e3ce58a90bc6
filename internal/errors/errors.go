// Package errors defines the coded errors shared between the game core and
// the bot handlers. Handlers map codes to user-facing reply texts.
package errors

import (
	"errors"
	"fmt"
)

// Error codes recognized by the application.
const (
	CodeUnknown    = "UNKNOWN"
	CodeConflict   = "CONFLICT"
	CodeNotFound   = "NOT_FOUND"
	CodeValidation = "VALIDATION"
)

// ApplicationError is the interface implemented by all coded errors.
type ApplicationError interface {
	error
	Code() string
	Unwrap() error
}

// Error carries a code, a message, and an optional cause.
type Error struct {
	code    string
	message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}

	return e.message
}

func (e *Error) Code() string {
	return e.code
}

func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the code of err if it is an ApplicationError,
// or CodeUnknown if it isn't.
func Code(err error) string {
	var appErr ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}

	return CodeUnknown
}

// ConflictError signals that an operation collides with existing state,
// such as starting a session while one is already open.
type ConflictError struct {
	base Error
}

func (e *ConflictError) Error() string {
	return e.base.Error()
}

func (e *ConflictError) Code() string {
	return e.base.Code()
}

func (e *ConflictError) Unwrap() error {
	return e.base.Unwrap()
}

func NewConflictError(message string) error {
	return &ConflictError{
		base: Error{
			code:    CodeConflict,
			message: message,
		},
	}
}

// NotFoundError signals that the entity an operation needs does not exist,
// such as operating on a chat with no open session.
type NotFoundError struct {
	base Error
}

func (e *NotFoundError) Error() string {
	return e.base.Error()
}

func (e *NotFoundError) Code() string {
	return e.base.Code()
}

func (e *NotFoundError) Unwrap() error {
	return e.base.Unwrap()
}

func NewNotFoundError(message string) error {
	return &NotFoundError{
		base: Error{
			code:    CodeNotFound,
			message: message,
		},
	}
}

// ValidationError signals malformed caller input, such as a non-positive
// buy-in amount.
type ValidationError struct {
	base Error
}

func (e *ValidationError) Error() string {
	return e.base.Error()
}

func (e *ValidationError) Code() string {
	return e.base.Code()
}

func (e *ValidationError) Unwrap() error {
	return e.base.Unwrap()
}

func NewValidationError(message string) error {
	return &ValidationError{
		base: Error{
			code:    CodeValidation,
			message: message,
		},
	}
}
