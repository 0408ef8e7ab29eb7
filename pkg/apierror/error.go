package apierror

import (
	"encoding/json"
	"net/http"
)

// Error represents a structured API error response.
type Error struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// ToJSON converts the error to the standard response envelope.
func (e *Error) ToJSON() []byte {
	response := map[string]interface{}{
		"success": false,
		"error": map[string]interface{}{
			"code":    e.Code,
			"message": e.Message,
		},
	}

	data, _ := json.Marshal(response)
	return data
}

// Is reports whether target is an *Error with the same code, so callers can
// use errors.Is against the constructors below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NotFound creates a 404 error for a lookup miss.
func NotFound(message string) *Error {
	if message == "" {
		message = "Resource not found"
	}
	return &Error{
		StatusCode: http.StatusNotFound,
		Code:       "NOT_FOUND",
		Message:    message,
	}
}

// InvalidCredential creates a 401 error for a failed credential check.
func InvalidCredential(message string) *Error {
	if message == "" {
		message = "Invalid credentials"
	}
	return &Error{
		StatusCode: http.StatusUnauthorized,
		Code:       "INVALID_CREDENTIAL",
		Message:    message,
	}
}

// Unauthorized creates a 401 error for a missing or expired session.
func Unauthorized(message string) *Error {
	if message == "" {
		message = "Authentication required"
	}
	return &Error{
		StatusCode: http.StatusUnauthorized,
		Code:       "UNAUTHORIZED",
		Message:    message,
	}
}

// DuplicateHandle creates a 409 error for a registration conflict.
func DuplicateHandle(message string) *Error {
	if message == "" {
		message = "Username already exists"
	}
	return &Error{
		StatusCode: http.StatusConflict,
		Code:       "DUPLICATE_HANDLE",
		Message:    message,
	}
}

// Validation creates a 400 error for a missing or invalid field.
func Validation(message string) *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Code:       "VALIDATION_ERROR",
		Message:    message,
	}
}

// BadRequest creates a 400 error for a malformed request.
func BadRequest(message string) *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
	}
}

// Access creates a 503 error for an unreachable or rejecting backing store.
func Access(message string) *Error {
	if message == "" {
		message = "Storage temporarily unavailable"
	}
	return &Error{
		StatusCode: http.StatusServiceUnavailable,
		Code:       "ACCESS_ERROR",
		Message:    message,
	}
}

// Internal creates a 500 error for anything unexpected.
func Internal(message string) *Error {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return &Error{
		StatusCode: http.StatusInternalServerError,
		Code:       "INTERNAL_ERROR",
		Message:    message,
	}
}
