// Package errors provides structured error types for deplayer.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - LAYERING_* and CYCLE_*: Layout engine failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDescriptor, "unknown package type %q", typ)
//	if errors.Is(err, errors.ErrCodeInvalidDescriptor) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRender, origErr, "graphviz failed")
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidDescriptor Code = "INVALID_DESCRIPTOR"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidRule       Code = "INVALID_RULE"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Layout engine errors
	ErrCodeCycleInconsistency Code = "CYCLE_INCONSISTENCY"
	ErrCodeLayeringStall      Code = "LAYERING_STALL"

	// Rendering errors
	ErrCodeRender Code = "RENDER_FAILED"

	// Internal errors
	ErrCodeTimeout     Code = "TIMEOUT"
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
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var s *StallError
	if errors.As(err, &s) {
		return s.Code()
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

// HTTPStatus maps an error code to the HTTP status the API responds with.
func HTTPStatus(code Code) int {
	switch {
	case code == ErrCodeNotFound || code == ErrCodeFileNotFound:
		return http.StatusNotFound
	case code == ErrCodeLayeringStall:
		return http.StatusUnprocessableEntity
	case code == ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case code == ErrCodeUnsupported:
		return http.StatusNotImplemented
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// StallError reports nodes the layer assigner could not place.
type StallError struct {
	Placed   int      // Number of nodes that received a layer
	Unplaced []string // Ids left without a layer, in graph order
}

// Error implements the error interface.
func (e *StallError) Error() string {
	if len(e.Unplaced) == 0 {
		return "layering stalled"
	}
	return fmt.Sprintf("layering stalled: %d of %d nodes unplaced (%s)",
		len(e.Unplaced), e.Placed+len(e.Unplaced), strings.Join(e.Unplaced, ", "))
}

// Code returns the error code for this error type.
func (e *StallError) Code() Code {
	return ErrCodeLayeringStall
}
