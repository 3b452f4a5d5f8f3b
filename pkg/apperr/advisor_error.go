package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Validation errors
	CodeBadRequest   = "BAD_REQUEST"
	CodeInvalidInput = "INVALID_INPUT"
	CodeMissingField = "MISSING_FIELD"

	// Resource errors
	CodeNotFound = "NOT_FOUND"

	// Advisor pipeline errors
	CodeParseFailure          = "PARSE_FAILURE"
	CodeClassificationFailure = "CLASSIFICATION_FAILURE"
	CodeExternalService       = "EXTERNAL_SERVICE_FAILURE"
	CodeApplicationFailure    = "APPLICATION_FAILURE"

	// Internal errors
	CodeInternalError = "INTERNAL_ERROR"
	CodeConfigError   = "CONFIG_ERROR"
	CodeTimeout       = "TIMEOUT"
	CodeRateLimited   = "RATE_LIMITED"
	CodeUnavailable   = "SERVICE_UNAVAILABLE"
)

// AppError represents a structured application error
type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Status  int            `json:"-"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// HTTPStatus returns the HTTP status code
func (e *AppError) HTTPStatus() int {
	return e.Status
}

// Constructor functions
func New(code, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

func Wrap(err error, code, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Validation errors
func BadRequest(message string) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func InvalidInput(field, reason string) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: fmt.Sprintf("invalid input for '%s': %s", field, reason),
		Status:  http.StatusBadRequest,
		Details: map[string]any{"field": field},
	}
}

func MissingField(field string) *AppError {
	return &AppError{
		Code:    CodeMissingField,
		Message: fmt.Sprintf("missing required field: %s", field),
		Status:  http.StatusBadRequest,
		Details: map[string]any{"field": field},
	}
}

// Resource errors
func NotFound(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
	}
}

// ParseFailure is recorded when an AI response section cannot be read.
// Parsers recover from it locally; it is exported for logging.
func ParseFailure(section string, err error) *AppError {
	return &AppError{
		Code:    CodeParseFailure,
		Message: fmt.Sprintf("could not parse %s", section),
		Status:  http.StatusUnprocessableEntity,
		Details: map[string]any{"section": section},
		Err:     err,
	}
}

// ClassificationFailure means no recommendation variant produced a usable payload.
func ClassificationFailure(message string) *AppError {
	return &AppError{
		Code:    CodeClassificationFailure,
		Message: message,
		Status:  http.StatusUnprocessableEntity,
	}
}

// ExternalServiceFailure wraps a rejected or timed-out collaborator call.
func ExternalServiceFailure(service string, err error) *AppError {
	msg := fmt.Sprintf("%s request failed", service)
	if err != nil {
		msg = fmt.Sprintf("%s request failed: %v", service, err)
	}
	return &AppError{
		Code:    CodeExternalService,
		Message: msg,
		Status:  http.StatusBadGateway,
		Details: map[string]any{"service": service},
		Err:     err,
	}
}

// ApplicationFailure is returned when the editor rejects a mutation.
func ApplicationFailure(message string) *AppError {
	return &AppError{
		Code:    CodeApplicationFailure,
		Message: message,
		Status:  http.StatusConflict,
	}
}

// Internal errors
func Internal(message string) *AppError {
	if message == "" {
		message = "internal server error"
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

func InternalWithError(err error) *AppError {
	return &AppError{
		Code:    CodeInternalError,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func ConfigError(message string) *AppError {
	return &AppError{
		Code:    CodeConfigError,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

func Timeout(operation string) *AppError {
	return &AppError{
		Code:    CodeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Status:  http.StatusGatewayTimeout,
	}
}

func Unavailable(service string) *AppError {
	return &AppError{
		Code:    CodeUnavailable,
		Message: fmt.Sprintf("%s is not configured", service),
		Status:  http.StatusServiceUnavailable,
		Details: map[string]any{"service": service},
	}
}

// Common error instances
var (
	ErrNotFound    = NotFound("resource")
	ErrBadRequest  = BadRequest("bad request")
	ErrInternal    = Internal("")
	ErrRateLimited = New(CodeRateLimited, "too many requests", http.StatusTooManyRequests)
	ErrNoSelection = ApplicationFailure("no element selected")
)

// Helper functions
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return InternalWithError(err)
}

func GetHTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
