package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the response shape every endpoint returns.
type Envelope struct {
	Status  string      `json:"status"`           // "success" or "error"
	Message string      `json:"message"`          // Human readable message
	Data    interface{} `json:"data,omitempty"`   // Payload on success
	Errors  interface{} `json:"errors,omitempty"` // Field errors on failure
}

// Success writes a success envelope with the given status code.
func Success(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, Envelope{Status: "success", Message: message, Data: data})
}

// Error writes an error envelope with the given status code.
func Error(c echo.Context, code int, message string, errs interface{}) error {
	return c.JSON(code, Envelope{Status: "error", Message: message, Errors: errs})
}

// APIError is a typed domain error carrying its HTTP status code and an
// optional field-level error map.
type APIError struct {
	Code    int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewValidationError reports invalid input with per-field detail.
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{Code: http.StatusBadRequest, Message: message, Fields: fields}
}

// NewAuthError reports bad credentials or an invalid/expired token.
func NewAuthError(message string) *APIError {
	return &APIError{Code: http.StatusUnauthorized, Message: message}
}

// NewForbiddenError reports a role or ownership denial.
func NewForbiddenError(message string) *APIError {
	return &APIError{Code: http.StatusForbidden, Message: message}
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(message string) *APIError {
	return &APIError{Code: http.StatusNotFound, Message: message}
}

// NewConflictError reports a uniqueness violation.
func NewConflictError(message string) *APIError {
	return &APIError{Code: http.StatusConflict, Message: message}
}

// NewBadRequestError reports a malformed request without field detail.
func NewBadRequestError(message string) *APIError {
	return &APIError{Code: http.StatusBadRequest, Message: message}
}

// NewUploadError reports a rejected file upload.
func NewUploadError(message string) *APIError {
	return &APIError{Code: http.StatusBadRequest, Message: message}
}
