package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the different classes of failure the labeler distinguishes
type ErrorType string

const (
	// ErrorTypeRemote is a transport or status failure talking to the catalog service
	ErrorTypeRemote ErrorType = "remote"
	// ErrorTypeProtocol is a catalog response whose shape did not match expectations
	ErrorTypeProtocol ErrorType = "protocol"
	// ErrorTypeValidation is human input that did not satisfy the expected format
	ErrorTypeValidation ErrorType = "validation"
)

// Error represents a typed error with optional HTTP status and cause
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// NewRemote creates a remote error for the given status code and cause
func NewRemote(code int, err error, format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeRemote, Message: fmt.Sprintf(format, args...), Code: code, Err: err}
}

// NewProtocol creates a protocol error
func NewProtocol(code int, err error, format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeProtocol, Message: fmt.Sprintf(format, args...), Code: code, Err: err}
}

// NewValidation creates a validation error
func NewValidation(format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeValidation, Message: fmt.Sprintf(format, args...)}
}

// TypeOf returns the ErrorType of err, or "" when err is not a typed error
func TypeOf(err error) ErrorType {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Type
	}
	return ""
}

// IsRemote reports whether err is, or wraps, a remote error
func IsRemote(err error) bool {
	return TypeOf(err) == ErrorTypeRemote
}

// IsProtocol reports whether err is, or wraps, a protocol error
func IsProtocol(err error) bool {
	return TypeOf(err) == ErrorTypeProtocol
}

// IsValidation reports whether err is, or wraps, a validation error
func IsValidation(err error) bool {
	return TypeOf(err) == ErrorTypeValidation
}

// IsFetchFailure reports whether err should end the run and be surfaced to the operator.
// Restarting resumes from the last checkpointed cursor.
func IsFetchFailure(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeRemote, ErrorTypeProtocol:
		return true
	default:
		return false
	}
}
