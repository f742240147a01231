// Package errors defines common error types for the application.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown        = "UNKNOWN_ERROR"
	CodeInputError      = "INPUT_ERROR"
	CodeProtocolError   = "PROTOCOL_ERROR"
	CodeOverflowError   = "OVERFLOW_ERROR"
	CodeConfigError     = "CONFIG_ERROR"
	CodeTransportError  = "TRANSPORT_ERROR"
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeNotFound        = "NOT_FOUND"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error instances.
var (
	ErrInputError     = New(CodeInputError, "malformed input")
	ErrProtocolError  = New(CodeProtocolError, "protocol violation")
	ErrOverflowError  = New(CodeOverflowError, "counter overflow")
	ErrConfigError    = New(CodeConfigError, "configuration error")
	ErrTransportError = New(CodeTransportError, "transport failure")
	ErrDatabaseError  = New(CodeDatabaseError, "database error")
	ErrNotFound       = New(CodeNotFound, "resource not found")
)

// IsInputError checks if the error is a malformed-input error.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInputError)
}

// IsProtocolError checks if the error is a protocol violation.
func IsProtocolError(err error) bool {
	return errors.Is(err, ErrProtocolError)
}

// IsOverflowError checks if the error is a counter overflow.
func IsOverflowError(err error) bool {
	return errors.Is(err, ErrOverflowError)
}

// IsTransportError checks if the error is a transport failure.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransportError)
}

// IsDatabaseError checks if the error is a database error.
func IsDatabaseError(err error) bool {
	return errors.Is(err, ErrDatabaseError)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
