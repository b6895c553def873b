// Package domainerrors defines coded errors that services return and the
// transport layer translates into responses.
//
// Services should never decide HTTP status codes. They pick a Code and the
// httputil package maps it. Infrastructure facts (row missing, stale version)
// come up from stores as sentinel errors and are wrapped here with a Code.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code is a stable, client-facing error identifier.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeTimeout            Code = "timeout"
	CodeUpstream           Code = "upstream_error"
	CodeInternal           Code = "internal_error"
)

// Error carries a Code, a message safe to show to callers, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf is New with formatting.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to err. The cause stays reachable via
// errors.Is / errors.As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether the outermost coded error in err's chain has code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the outermost coded error, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the caller-safe message of the outermost coded error.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
