package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigMissing    ErrorCode = "CONFIG_MISSING"
	ErrConfigIncomplete ErrorCode = "CONFIG_INCOMPLETE"

	// Parameter errors
	ErrInvalidParams ErrorCode = "INVALID_PARAMS"

	// Template errors
	ErrTemplateMissing ErrorCode = "TEMPLATE_MISSING"
	ErrTargetExists    ErrorCode = "TARGET_EXISTS"
	ErrManifestInvalid ErrorCode = "MANIFEST_INVALID"

	// Billing errors
	ErrBillingAPI ErrorCode = "BILLING_API"

	// External command errors
	ErrCommandFailed ErrorCode = "COMMAND_FAILED"

	// FileSystem errors
	ErrFileCreate ErrorCode = "FILE_CREATE"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// LaunchpadError represents a structured error with code and details
type LaunchpadError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *LaunchpadError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *LaunchpadError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *LaunchpadError) Is(target error) bool {
	var targetErr *LaunchpadError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new LaunchpadError with the given code and message
func New(code ErrorCode, message string) *LaunchpadError {
	return &LaunchpadError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new LaunchpadError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *LaunchpadError {
	return &LaunchpadError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a LaunchpadError
func Wrap(err error, code ErrorCode, message string) *LaunchpadError {
	if err == nil {
		return nil
	}
	return &LaunchpadError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *LaunchpadError {
	if err == nil {
		return nil
	}
	return &LaunchpadError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *LaunchpadError) WithDetail(key string, value interface{}) *LaunchpadError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var lpErr *LaunchpadError
	if errors.As(err, &lpErr) {
		return lpErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a LaunchpadError
func GetErrorCode(err error) ErrorCode {
	var lpErr *LaunchpadError
	if errors.As(err, &lpErr) {
		return lpErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a LaunchpadError
func GetErrorDetails(err error) map[string]interface{} {
	var lpErr *LaunchpadError
	if errors.As(err, &lpErr) {
		return lpErr.Details
	}
	return nil
}
