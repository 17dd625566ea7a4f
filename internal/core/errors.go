package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatValidation ErrorCategory = "validation" // Invalid input or configuration
	ErrCatNetwork    ErrorCategory = "network"    // Analyzer unreachable
	ErrCatTimeout    ErrorCategory = "timeout"    // Analyzer call timed out
	ErrCatService    ErrorCategory = "service"    // Analyzer answered with a non-success status
	ErrCatDecode     ErrorCategory = "decode"     // Response body could not be decoded
	ErrCatNotFound   ErrorCategory = "not_found"  // Resource not found
	ErrCatCanceled   ErrorCategory = "canceled"   // Caller gave up on the request
	ErrCatInternal   ErrorCategory = "internal"   // Unexpected internal error
)

// GenericFailureMessage is shown when a failure carries no usable text.
const GenericFailureMessage = "An unexpected error occurred. Please try again."

// DomainError represents a structured error from the domain layer.
type DomainError struct {
	Category  ErrorCategory
	Code      string
	Message   string
	Retryable bool
	Cause     error
	Details   map[string]interface{}

	// StatusCode is the HTTP status returned by the analyzer, if any.
	StatusCode int
	// ServerDetail is the "detail" field of a structured failure body.
	ServerDetail string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds contextual information.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ErrValidation creates a validation error.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatValidation,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// ErrNetwork creates a network error.
func ErrNetwork(message string) *DomainError {
	return &DomainError{
		Category:  ErrCatNetwork,
		Code:      CodeAnalyzerUnreachable,
		Message:   message,
		Retryable: true,
	}
}

// ErrTimeout creates a timeout error.
func ErrTimeout(message string) *DomainError {
	return &DomainError{
		Category:  ErrCatTimeout,
		Code:      "TIMEOUT",
		Message:   message,
		Retryable: true,
	}
}

// ErrCanceled creates an error for a request the caller abandoned.
func ErrCanceled(message string) *DomainError {
	return &DomainError{
		Category:  ErrCatCanceled,
		Code:      "CANCELED",
		Message:   message,
		Retryable: false,
	}
}

// ErrService creates an error for a non-success analyzer response.
// detail is the server-supplied explanation and may be empty.
func ErrService(status int, detail string) *DomainError {
	return &DomainError{
		Category:     ErrCatService,
		Code:         CodeAnalyzerStatus,
		Message:      fmt.Sprintf("analyzer returned status %d", status),
		Retryable:    status >= 500 || status == 429,
		StatusCode:   status,
		ServerDetail: detail,
	}
}

// ErrDecode creates an error for a malformed analyzer response.
func ErrDecode(message string) *DomainError {
	return &DomainError{
		Category:  ErrCatDecode,
		Code:      CodeMalformedReport,
		Message:   message,
		Retryable: false,
	}
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) *DomainError {
	return &DomainError{
		Category:  ErrCatNotFound,
		Code:      "NOT_FOUND",
		Message:   fmt.Sprintf("%s not found: %s", resource, id),
		Retryable: false,
	}
}

// ErrInternal creates an error for local failures such as storage problems.
func ErrInternal(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatInternal,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Retryable
	}
	return false
}

// GetCategory extracts the error category.
func GetCategory(err error) ErrorCategory {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Category
	}
	return ErrCatInternal
}

// IsCategory checks if an error belongs to a category.
func IsCategory(err error, cat ErrorCategory) bool {
	return GetCategory(err) == cat
}

// UserMessage turns a failed analysis into the text shown to the user.
// Precedence: server detail, then the error's own message, then GenericFailureMessage.
func UserMessage(err error) string {
	if err == nil {
		return GenericFailureMessage
	}

	var domErr *DomainError
	if errors.As(err, &domErr) {
		if detail := strings.TrimSpace(domErr.ServerDetail); detail != "" {
			return detail
		}
		if msg := strings.TrimSpace(domErr.Message); msg != "" {
			return msg
		}
		if domErr.Cause != nil {
			if msg := strings.TrimSpace(domErr.Cause.Error()); msg != "" {
				return msg
			}
		}
		return GenericFailureMessage
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return GenericFailureMessage
}

// Predefined error codes
const (
	CodeAnalyzerUnreachable = "ANALYZER_UNREACHABLE"
	CodeAnalyzerStatus      = "ANALYZER_STATUS"
	CodeMalformedReport     = "MALFORMED_REPORT"
	CodeEmptyInput          = "EMPTY_INPUT"
	CodeInvalidConfig       = "INVALID_CONFIG"
	CodeInvalidFormat       = "INVALID_FORMAT"
	CodeHistoryUnavailable  = "HISTORY_UNAVAILABLE"
)
