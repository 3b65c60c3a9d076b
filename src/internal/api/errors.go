package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/errors"
)

// ErrorCode represents standard API error codes.
type ErrorCode string

const (
	// ErrCodeInvalidRequest indicates malformed or invalid request data.
	ErrCodeInvalidRequest ErrorCode = "invalid_request"

	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"

	// ErrCodeForbidden indicates the client address is not allowed.
	ErrCodeForbidden ErrorCode = "forbidden"

	// ErrCodeInternalError indicates an internal server error.
	ErrCodeInternalError ErrorCode = "internal_error"

	// ErrCodeValidationFailed indicates configuration validation failed.
	ErrCodeValidationFailed ErrorCode = "validation_failed"

	// ErrCodeServiceError indicates the radio or another hotspot service failed.
	ErrCodeServiceError ErrorCode = "service_error"
)

// APIError represents a structured API error response.
type APIError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError for JSON responses.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// NewAPIError creates a new APIError with the given code and message.
func NewAPIError(code ErrorCode, message string) APIError {
	return APIError{
		Code:    code,
		Message: message,
		Details: nil,
	}
}

// WithDetails adds details to an APIError.
func (e APIError) WithDetails(details map[string]interface{}) APIError {
	e.Details = details
	return e
}

// WriteError writes an error response to the HTTP response writer.
func WriteError(w http.ResponseWriter, statusCode int, err APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err})
}

// WriteInvalidRequest writes a 400 Bad Request error.
func WriteInvalidRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, NewAPIError(ErrCodeInvalidRequest, message))
}

// WriteNotFound writes a 404 Not Found error.
func WriteNotFound(w http.ResponseWriter, resource string) {
	WriteError(w, http.StatusNotFound, NewAPIError(ErrCodeNotFound, resource+" not found"))
}

// WriteInternalError writes a 500 Internal Server Error.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// WriteValidationError writes a 400 Bad Request with validation details.
func WriteValidationError(w http.ResponseWriter, message string, details map[string]interface{}) {
	err := NewAPIError(ErrCodeValidationFailed, message).WithDetails(details)
	WriteError(w, http.StatusBadRequest, err)
}

// WriteServiceError writes a 500 Internal Server Error for service failures.
func WriteServiceError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, NewAPIError(ErrCodeServiceError, message))
}

// WriteForbidden writes a 403 Forbidden error.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

func asValidationErrors(err error, target *config.ValidationErrors) bool {
	return stderrors.As(err, target)
}

// validationDetails groups validation messages by field path.
func validationDetails(verrs config.ValidationErrors) map[string]interface{} {
	details := make(map[string]interface{}, len(verrs))
	for _, e := range verrs {
		key := e.FieldPath
		if e.ItemName != "" {
			key = e.ItemName + ": " + e.FieldPath
		}
		details[key] = e.Message
	}
	return details
}

// writeDomainError maps a coded error to an HTTP response.
func writeDomainError(w http.ResponseWriter, err error) {
	var verrs config.ValidationErrors
	switch {
	case asValidationErrors(err, &verrs):
		WriteValidationError(w, "Validation failed", validationDetails(verrs))
	case errors.HasCode(err, errors.ErrCodeValidation):
		WriteInvalidRequest(w, err.Error())
	case errors.HasCode(err, errors.ErrCodeDriver):
		WriteServiceError(w, err.Error())
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		WriteError(w, http.StatusServiceUnavailable, NewAPIError(ErrCodeServiceError, "hotspot is busy, try again"))
	default:
		WriteInternalError(w, err.Error())
	}
}
