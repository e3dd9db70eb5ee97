// Package errors provides structured error types for crumbtrail.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so that the CLI, the HTTP server and library callers can tell a
// malformed node collection apart from a broken configuration without
// matching on message text.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (usage errors)
//   - CYCLIC_*: Structural failures detected while walking parent links
//   - *_NOT_FOUND: Missing templates or resources
//   - INTERNAL_*: Unexpected internal errors
//
// A current path that matches no node is not an error: resolution returns an
// empty chain and nothing is rendered.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "nodes cannot be empty")
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle usage error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidURLPrefix, origErr, "parse url prefix %q", prefix)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Usage errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidTemplate  Code = "INVALID_TEMPLATE"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeInvalidURLPrefix Code = "INVALID_URL_PREFIX"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	// Structural errors in the node collection
	ErrCodeInvalidTreeStructure Code = "INVALID_TREE_STRUCTURE"
	ErrCodeCyclicStructure      Code = "CYCLIC_STRUCTURE"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeTemplateNotFound Code = "TEMPLATE_NOT_FOUND"
	ErrCodeSourceNotFound   Code = "SOURCE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// IsUsage reports whether err is a caller mistake that retrying with the
// same input can never fix.
func IsUsage(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidTemplate, ErrCodeInvalidPath,
		ErrCodeInvalidURLPrefix, ErrCodeInvalidConfig,
		ErrCodeInvalidTreeStructure, ErrCodeCyclicStructure:
		return true
	}
	return false
}
