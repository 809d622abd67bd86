// Package errors provides structured error types for spacemark.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP bridge
//   - Machine-readable error codes for the host panel
//   - User-facing messages matching what the host shows in its toast
//   - Error wrapping with context preservation
//
// The geometry core (resolver and descriptor builder) never returns
// errors; codes here cover input parsing, selection checks, configuration
// and I/O around it.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_SELECTION, NO_ARTBOARD, LAYER_NOT_ALLOWED: Selection checks
//   - NOT_FOUND, FILE_NOT_FOUND: Missing resources
//   - NETWORK_ERROR: Remote schema fetches
//   - INTERNAL_ERROR: Unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidCommand, "unknown command: %s", id)
//	if errors.Is(err, errors.ErrCodeInvalidCommand) {
//	    // Show the command list
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidScene, origErr, "decode %s", path)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidCommand  Code = "INVALID_COMMAND"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidAxis     Code = "INVALID_AXIS"
	ErrCodeInvalidStyle    Code = "INVALID_STYLE"
	ErrCodeInvalidScene    Code = "INVALID_SCENE"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"

	// Selection errors
	ErrCodeEmptySelection    Code = "EMPTY_SELECTION"
	ErrCodeNoArtboard        Code = "NO_ARTBOARD"
	ErrCodeLayerNotAllowed   Code = "LAYER_NOT_ALLOWED"
	ErrCodeMultipleSelection Code = "MULTIPLE_SELECTION"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// IsSelection reports whether err is one of the selection check failures.
// The host reports these as a toast rather than a failure.
func IsSelection(err error) bool {
	switch GetCode(err) {
	case ErrCodeEmptySelection, ErrCodeNoArtboard, ErrCodeLayerNotAllowed, ErrCodeMultipleSelection:
		return true
	}
	return false
}
