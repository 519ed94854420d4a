package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error for callers that must decide how to react
// (reject input, report missing resources, surface a state violation, or retry)
type ErrorKind string

const (
	KindValidation        ErrorKind = "VALIDATION"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindInvalidTransition ErrorKind = "INVALID_TRANSITION"
	KindConflict          ErrorKind = "CONFLICT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind      `json:"kind"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that sentinel comparisons survive copies
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithDetail returns a copy of the error carrying an extra detail entry
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{Kind: e.Kind, Code: e.Code, Message: e.Message, Details: details}
}

// NewDomainError creates a new validation-kind domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError creates a domain error for an unknown reference
func NewNotFoundError(code, message string) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Code:    code,
		Message: message,
	}
}

// NewConflictError creates a domain error that is safe to retry
func NewConflictError(code, message string) *DomainError {
	return &DomainError{
		Kind:    KindConflict,
		Code:    code,
		Message: message,
	}
}

// NewInvalidTransitionError reports a rejected status change with both the
// attempted and the current status
func NewInvalidTransitionError(entity, current, attempted string) *DomainError {
	return &DomainError{
		Kind:    KindInvalidTransition,
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("Cannot move %s from %s to %s", entity, current, attempted),
		Details: map[string]any{
			"current":   current,
			"attempted": attempted,
		},
	}
}

// Error codes shared across bounded contexts
const (
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInvalidAmount     = "INVALID_AMOUNT"
	CodeInvalidQuantity   = "INVALID_QUANTITY"
)

// Common domain errors
var (
	ErrNotFound            = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewConflictError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewConflictError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrDuplicateRequest    = NewConflictError("DUPLICATE_REQUEST", "Request with this idempotency key was already processed")
)

// KindOf returns the kind of a domain error, or "" for foreign errors
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsNotFound reports whether err is a not-found domain error of any code
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsConflict reports whether err is a retryable conflict
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

// IsInvalidTransition reports whether err is a lifecycle violation
func IsInvalidTransition(err error) bool {
	return KindOf(err) == KindInvalidTransition
}
