// Package errs defines the coded application errors used across jokebot and the
// Reporter that contains failures which must not crash the process.
package errs

import (
	"errors"
	"fmt"
)

// Standard error codes for the application.
const (
	CodeUnknown    = "UNKNOWN"
	CodeDatabase   = "DATABASE"
	CodeValidation = "VALIDATION"
	CodeConfig     = "CONFIG"
	CodeDelivery   = "DELIVERY"
	CodeNotFound   = "NOT_FOUND"
)

// ApplicationError is the interface that all coded errors implement.
type ApplicationError interface {
	error
	Code() string
	Unwrap() error
}

// Error is a coded error with an optional cause.
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

// Code returns the error code.
func (e *Error) Code() string {
	return e.code
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Is reports whether target is a coded error with the same code and no message of its own,
// which lets callers write errors.Is(err, errs.ErrValidation).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.message == "" && t.err == nil && t.code == e.code
}

// Sentinels for errors.Is checks by code.
var (
	ErrDatabase   = &Error{code: CodeDatabase}
	ErrValidation = &Error{code: CodeValidation}
	ErrConfig     = &Error{code: CodeConfig}
	ErrDelivery   = &Error{code: CodeDelivery}
	ErrNotFound   = &Error{code: CodeNotFound}
)

// Code returns the code of the first ApplicationError in err's chain,
// or CodeUnknown if there is none.
func Code(err error) string {
	var appErr ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return CodeUnknown
}

func newError(code, message string, cause error) error {
	return &Error{code: code, message: message, err: cause}
}

// NewDatabaseError wraps a storage failure.
func NewDatabaseError(message string, cause error) error {
	return newError(CodeDatabase, message, cause)
}

// NewValidationError reports input rejected at a boundary.
func NewValidationError(message string, cause error) error {
	return newError(CodeValidation, message, cause)
}

// NewConfigError reports invalid or inconsistent configuration.
func NewConfigError(message string, cause error) error {
	return newError(CodeConfig, message, cause)
}

// NewDeliveryError reports a failure sending something to the messaging platform.
func NewDeliveryError(message string, cause error) error {
	return newError(CodeDelivery, message, cause)
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(message string, cause error) error {
	return newError(CodeNotFound, message, cause)
}
