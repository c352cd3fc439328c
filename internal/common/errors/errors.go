// Package errors provides the standardized error taxonomy for the placement portal.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeForbidden           ErrorCode = "FORBIDDEN"
	ErrCodePreconditionFailed  ErrorCode = "PRECONDITION_FAILED"
	ErrCodeTransitionForbidden ErrorCode = "TRANSITION_FORBIDDEN"
	ErrCodeValidation          ErrorCode = "VALIDATION_ERROR"
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeStorage             ErrorCode = "STORAGE_ERROR"
	ErrCodeQuotaExceeded       ErrorCode = "QUOTA_EXCEEDED"
)

// Precondition reasons surfaced to callers in the detail field.
const (
	ReasonIncompleteDocuments = "IncompleteDocuments"
	ReasonConsentMissing      = "PrivacyConsentMissing"
	ReasonDeadlineOutOfRange  = "DeadlineOutOfRange"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// HTTPStatus maps the error code to the status the HTTP layer should surface.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodePreconditionFailed, ErrCodeTransitionForbidden, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeUpstreamUnavailable, ErrCodeQuotaExceeded:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewNotFoundError creates a non-retryable lookup error.
func NewNotFoundError(entity string, id interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", entity),
		Details:   fmt.Sprintf("id: %v", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewForbiddenError creates a non-retryable authorization error.
func NewForbiddenError(action, actor string) *StandardError {
	return &StandardError{
		Code:      ErrCodeForbidden,
		Message:   fmt.Sprintf("actor '%s' may not %s", actor, action),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPreconditionFailedError creates a non-retryable precondition error.
func NewPreconditionFailedError(reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodePreconditionFailed,
		Message:   "Precondition failed",
		Details:   reason,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransitionForbiddenError creates a non-retryable state machine error.
func NewTransitionForbiddenError(from, to, role string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransitionForbidden,
		Message:   fmt.Sprintf("transition %s -> %s not permitted for role %s", from, to, role),
		Retryable: false,
		Metadata: map[string]interface{}{
			"from": from,
			"to":   to,
			"role": role,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError creates a non-retryable field validation error.
func NewValidationError(field, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   fmt.Sprintf("invalid value for %s", field),
		Details:   reason,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamUnavailableError creates a retryable external service error.
func NewUpstreamUnavailableError(service string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeUpstreamUnavailable,
		Message:   fmt.Sprintf("upstream service '%s' unavailable", service),
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageError creates a retryable blob storage error.
func NewStorageError(op string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeStorage,
		Message:   fmt.Sprintf("storage operation '%s' failed", op),
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuotaExceededError creates a retry-after error for upstream rate limits.
func NewQuotaExceededError(service string, retryAfter time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuotaExceeded,
		Message:   fmt.Sprintf("rate limited by '%s'", service),
		Retryable: true,
		Metadata: map[string]interface{}{
			"retryAfterSeconds": int(retryAfter.Seconds()),
		},
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// CodeOf extracts the error code, or empty string for foreign errors.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsNotFound reports whether err is a NOT_FOUND error.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsRetryable reports whether a single retry is worthwhile.
func IsRetryable(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}
