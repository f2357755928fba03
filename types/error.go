package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies errors across the module.
type ErrorCode string

// Core error codes.
const (
	// ErrGateway covers model gateway failures: transport errors and
	// unusable (empty) completions. Fatal to one exchange, not to the
	// conversation.
	ErrGateway ErrorCode = "GATEWAY_ERROR"

	// ErrSummarization is a gateway failure inside the summarization path.
	// The conversation manager downgrades it to a warning.
	ErrSummarization ErrorCode = "SUMMARIZATION_FAILED"

	// ErrSchemaValidation reports extraction results with missing or
	// mistyped required fields. Recoverable, carries field-level detail.
	ErrSchemaValidation ErrorCode = "SCHEMA_VALIDATION"

	// ErrInvalidConfiguration reports bad construction-time parameters,
	// detected eagerly.
	ErrInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"

	ErrInvalidRequest ErrorCode = "INVALID_REQUEST"
)

// Transport-level codes produced by the HTTP gateway's status mapping.
const (
	ErrUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrForbidden       ErrorCode = "FORBIDDEN"
	ErrRateLimited     ErrorCode = "RATE_LIMITED"
	ErrQuotaExceeded   ErrorCode = "QUOTA_EXCEEDED"
	ErrModelOverloaded ErrorCode = "MODEL_OVERLOADED"
	ErrUpstreamTimeout ErrorCode = "UPSTREAM_TIMEOUT"
	ErrUpstreamError   ErrorCode = "UPSTREAM_ERROR"
)

// Error is the structured error carried by every failure in this module.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Provider   string    `json:"provider,omitempty"`
	Cause      error     `json:"-"`
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

// NewError creates an Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause attaches an underlying cause.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the HTTP status that produced the error.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithProvider sets the gateway provider name.
func (e *Error) WithProvider(provider string) *Error {
	e.Provider = provider
	return e
}

// IsRetryable reports whether err carries a retryable Error.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// GetErrorCode extracts the code from an error, or "" when it is not an Error.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
