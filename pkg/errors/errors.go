// Package errors provides coded errors shared by the wikicollage CLI and
// HTTP adapter.
//
// Codes are machine-readable and map onto HTTP status codes in the server:
//
//	err := errors.New(errors.ErrCodeInvalidInput, "scale %.2f out of range", v)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // 400
//	}
//
// Upstream failures from the MediaWiki client are wrapped with
// [ErrCodeNetwork] or [ErrCodeMalformedResponse] via [Classify].
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes.
const (
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeNetwork           Code = "NETWORK_ERROR"
	ErrCodeMalformedResponse Code = "MALFORMED_RESPONSE"
	ErrCodeInternal          Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Classify maps err onto a code by matching it against sentinel errors.
// Errors that already carry a code keep it; unmatched errors become
// [ErrCodeInternal].
func Classify(err error, sentinels map[error]Code) Code {
	if code := GetCode(err); code != "" {
		return code
	}
	for target, code := range sentinels {
		if errors.Is(err, target) {
			return code
		}
	}
	return ErrCodeInternal
}
