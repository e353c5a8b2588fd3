// Package errors provides structured error types for critpath.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CPM core, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly messages that name the offending task
//
// # Error Codes
//
// Codes fall into three groups:
//   - User errors: INVALID_INPUT, CYCLE_DETECTED, INVALID_FORMAT, ... The
//     input must be corrected; retrying the same input fails identically.
//   - Contract errors: INVARIANT_VIOLATION, INVALID_GRAPH. They indicate a
//     defect in critpath itself and are never expected by callers.
//   - Ambient errors: FILE_NOT_FOUND, TIMEOUT, INTERNAL_ERROR.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "duplicate task code %q", code)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // reject the input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeCycleDetected Code = "CYCLE_DETECTED"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidOption Code = "INVALID_OPTION"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Engine contract errors
	ErrCodeInvariantViolation Code = "INVARIANT_VIOLATION"
	ErrCodeInvalidGraph       Code = "INVALID_GRAPH"

	// Internal errors
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Task    string // Code of the task the error refers to (optional)
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

// ForTask records the code of the task the error refers to and returns e.
func (e *Error) ForTask(code string) *Error {
	e.Task = code
	return e
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

// GetTask extracts the task code attached to an error, if any.
func GetTask(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Task
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsUserError reports whether err was caused by input the caller can fix.
// Contract violations and unclassified errors are not user errors.
func IsUserError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeCycleDetected, ErrCodeInvalidFormat,
		ErrCodeInvalidPath, ErrCodeInvalidOption, ErrCodeFileNotFound, ErrCodeNotFound:
		return true
	}
	return false
}
