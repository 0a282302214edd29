package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Caller errors
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeAPIRateLimit   ErrorCode = "API_RATE_LIMIT"

	// Setup errors
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"

	// Upstream (scraping vendor) errors
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeUpstreamRunFailed   ErrorCode = "UPSTREAM_RUN_FAILED"
	ErrCodeRunTimedOut         ErrorCode = "RUN_TIMED_OUT"

	// Internal errors
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// AppError represents a structured application error
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  map[string]interface{} `json:"details,omitempty"`
	Cause    error                  `json:"-"`
	HTTPCode int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// GetHTTPCode returns the appropriate HTTP status code
func (e *AppError) GetHTTPCode() int {
	if e.HTTPCode != 0 {
		return e.HTTPCode
	}
	return getDefaultHTTPCode(e.Code)
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(cause error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Cause:    cause,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

func getDefaultHTTPCode(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAPIRateLimit:
		return http.StatusTooManyRequests
	case ErrCodeUpstreamUnavailable, ErrCodeUpstreamRunFailed:
		return http.StatusBadGateway
	case ErrCodeRunTimedOut:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors

// InvalidRequest creates an error for bad caller input
func InvalidRequest(field string, reason string) *AppError {
	return New(ErrCodeInvalidRequest, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithDetail("field", field)
}

// ConfigurationError creates an error for missing credentials or setup
func ConfigurationError(key string, reason string) *AppError {
	return New(ErrCodeConfiguration, fmt.Sprintf("configuration error for '%s': %s", key, reason)).
		WithDetail("key", key)
}

// UpstreamUnavailable creates an error for network failures or malformed vendor payloads
func UpstreamUnavailable(operation string, cause error) *AppError {
	return Wrap(cause, ErrCodeUpstreamUnavailable, fmt.Sprintf("scraping service unavailable during %s", operation)).
		WithDetail("operation", operation)
}

// UpstreamRunFailed creates an error carrying the vendor's diagnostic for a failed run
func UpstreamRunFailed(runID, status, statusMessage string) *AppError {
	msg := fmt.Sprintf("scrape run %s", status)
	if statusMessage != "" {
		msg = fmt.Sprintf("%s: %s", msg, statusMessage)
	}
	return New(ErrCodeUpstreamRunFailed, msg).
		WithDetail("runId", runID).
		WithDetail("vendorStatus", status)
}

// RunTimedOut creates an error for an exceeded local poll budget
func RunTimedOut(runID string, budget string) *AppError {
	return New(ErrCodeRunTimedOut, fmt.Sprintf("run %s still not finished after %s", runID, budget)).
		WithDetail("runId", runID).
		WithDetail("timeout", budget)
}

// As extracts an AppError from an error chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is checks if an error chain carries a specific code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := As(err); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// GetHTTPCode extracts the HTTP status code from an error
func GetHTTPCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.GetHTTPCode()
	}
	return http.StatusInternalServerError
}
