// Package errors provides coded error types for keen-softap.
//
// Every error carries an ErrorCode naming the subsystem that failed, so
// callers and the HTTP layer can classify failures with errors.Is.
package errors

import "fmt"

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeConfig indicates a configuration or settings store error.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeNetwork indicates an interface address or routing error.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"

	// ErrCodeDHCP indicates a DHCP service or subnet allocation error.
	ErrCodeDHCP ErrorCode = "DHCP_ERROR"

	// ErrCodeNAT indicates a forwarding or masquerading error.
	ErrCodeNAT ErrorCode = "NAT_ERROR"

	// ErrCodeDriver indicates a failure reported by the Wi-Fi driver layer.
	ErrCodeDriver ErrorCode = "DRIVER_ERROR"

	// ErrCodeValidation indicates a validation error.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error is an error with a code and an optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates an error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error wrapping cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

// NewNetworkError creates a network error.
func NewNetworkError(message string, cause error) *Error {
	return Wrap(ErrCodeNetwork, message, cause)
}

// NewDHCPError creates a DHCP error.
func NewDHCPError(message string, cause error) *Error {
	return Wrap(ErrCodeDHCP, message, cause)
}

// NewNATError creates a NAT error.
func NewNATError(message string, cause error) *Error {
	return Wrap(ErrCodeNAT, message, cause)
}

// NewDriverError creates a driver error.
func NewDriverError(message string, cause error) *Error {
	return Wrap(ErrCodeDriver, message, cause)
}

// NewValidationError creates a validation error.
func NewValidationError(message string, cause error) *Error {
	return Wrap(ErrCodeValidation, message, cause)
}

// NewInternalError creates an internal error.
func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}

// HasCode reports whether err or any error it wraps carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
