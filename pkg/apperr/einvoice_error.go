package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// User / credential errors
	CodeUnknownUser  = "UNKNOWN_USER"
	CodeTokenExpired = "TOKEN_EXPIRED"

	// Validation errors
	CodeBadRequest   = "BAD_REQUEST"
	CodeMissingField = "MISSING_FIELD"

	// Ingestion errors
	CodeMalformedAttachment = "MALFORMED_ATTACHMENT"
	CodeDecodeError         = "DECODE_ERROR"

	// Resource errors
	CodeNotFound = "NOT_FOUND"

	// External errors
	CodeOAuthFailed   = "OAUTH_FAILED"
	CodeDatabaseError = "DATABASE_ERROR"
	CodeRemoteService = "REMOTE_SERVICE"

	// Internal errors
	CodeInternalError = "INTERNAL_ERROR"
	CodeConfigError   = "CONFIG_ERROR"
	CodeTimeout       = "TIMEOUT"
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

// User / credential errors

// UnknownUser marks a notification for an address with no stored OAuth
// grant. Recoverable: the HTTP paths redirect to /oauth2init, the worker
// logs and drops.
func UnknownUser(email string) *AppError {
	return &AppError{
		Code:    CodeUnknownUser,
		Message: fmt.Sprintf("no stored credential for %s", email),
		Status:  http.StatusUnauthorized,
		Details: map[string]any{"email": email},
	}
}

func TokenExpired(email string) *AppError {
	return &AppError{
		Code:    CodeTokenExpired,
		Message: fmt.Sprintf("stored token for %s expired and could not be refreshed", email),
		Status:  http.StatusUnauthorized,
		Details: map[string]any{"email": email},
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

func MissingField(field string) *AppError {
	return &AppError{
		Code:    CodeMissingField,
		Message: fmt.Sprintf("missing required field: %s", field),
		Status:  http.StatusBadRequest,
		Details: map[string]any{"field": field},
	}
}

// Ingestion errors

// MalformedAttachment means the notification mail matched the subject
// marker but carried no usable CSV part. Fatal for the invocation.
func MalformedAttachment(reason string) *AppError {
	return &AppError{
		Code:    CodeMalformedAttachment,
		Message: fmt.Sprintf("malformed attachment: %s", reason),
		Status:  http.StatusUnprocessableEntity,
	}
}

// DecodeError means the attachment bytes could not be decoded
// (base64 or Big5). Fatal for the invocation.
func DecodeError(stage string, err error) *AppError {
	return &AppError{
		Code:    CodeDecodeError,
		Message: fmt.Sprintf("attachment decode failed at %s", stage),
		Status:  http.StatusUnprocessableEntity,
		Details: map[string]any{"stage": stage},
		Err:     err,
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

// External errors
func OAuthFailed(provider string, err error) *AppError {
	return &AppError{
		Code:    CodeOAuthFailed,
		Message: fmt.Sprintf("OAuth failed for %s", provider),
		Status:  http.StatusBadGateway,
		Details: map[string]any{"provider": provider},
		Err:     err,
	}
}

func DatabaseError(operation string, err error) *AppError {
	return &AppError{
		Code:    CodeDatabaseError,
		Message: fmt.Sprintf("database error: %s", operation),
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// RemoteService wraps a failure from a downstream Google API. The
// invocation aborts without partial writes.
func RemoteService(service string, err error) *AppError {
	return &AppError{
		Code:    CodeRemoteService,
		Message: fmt.Sprintf("remote service error: %s", service),
		Status:  http.StatusBadGateway,
		Details: map[string]any{"service": service},
		Err:     err,
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

// Common error instances
var (
	ErrNotFound   = NotFound("resource")
	ErrBadRequest = BadRequest("bad request")
	ErrInternal   = Internal("")
)

// Helper functions
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
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

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsUnknownUser reports whether err marks a missing OAuth grant.
func IsUnknownUser(err error) bool {
	return HasCode(err, CodeUnknownUser)
}
