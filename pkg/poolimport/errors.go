package poolimport

import (
	"errors"
	"fmt"
)

// ErrorCategory categorizes import failures for handling and reporting.
type ErrorCategory string

const (
	// ErrCategoryConfigAbsent indicates there is nothing in scope to import.
	ErrCategoryConfigAbsent ErrorCategory = "configuration_absent"
	// ErrCategoryIneligible indicates a pool lacks the required client pair.
	ErrCategoryIneligible ErrorCategory = "ineligible"
	// ErrCategoryMismatch indicates the client pair's OAuth settings diverge.
	ErrCategoryMismatch ErrorCategory = "oauth_mismatch"
	// ErrCategoryNotFound indicates a remote resource was not found.
	ErrCategoryNotFound ErrorCategory = "not_found"
	// ErrCategoryUpstream indicates a failure in the underlying cloud API.
	ErrCategoryUpstream ErrorCategory = "upstream"
	// ErrCategoryAborted indicates the operator declined to continue.
	ErrCategoryAborted ErrorCategory = "aborted"
	// ErrCategoryValidation indicates invalid input or configuration.
	ErrCategoryValidation ErrorCategory = "validation"
	// ErrCategoryInternal indicates a programming error.
	ErrCategoryInternal ErrorCategory = "internal"
)

// ImportError is a structured error with category and resource context.
type ImportError struct {
	// Category classifies the error type.
	Category ErrorCategory

	// Message is a human-readable error message.
	Message string

	// Operation is the operation that failed.
	Operation string

	// ResourceType is the type of resource involved.
	ResourceType string

	// ResourceID is the ID of the resource involved.
	ResourceID string

	// Remediation contains steps the operator can take.
	Remediation string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Category, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ImportError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error's category.
func (e *ImportError) Is(target error) bool {
	var ie *ImportError
	if errors.As(target, &ie) {
		return e.Category == ie.Category
	}
	return false
}

// NewError creates a new ImportError.
func NewError(category ErrorCategory, message string) *ImportError {
	return &ImportError{
		Category: category,
		Message:  message,
	}
}

// WithOperation sets the operation.
func (e *ImportError) WithOperation(op string) *ImportError {
	e.Operation = op
	return e
}

// WithResource sets the resource type and ID.
func (e *ImportError) WithResource(resourceType, resourceID string) *ImportError {
	e.ResourceType = resourceType
	e.ResourceID = resourceID
	return e
}

// WithRemediation sets operator-facing remediation text.
func (e *ImportError) WithRemediation(text string) *ImportError {
	e.Remediation = text
	return e
}

// WithCause sets the underlying error.
func (e *ImportError) WithCause(err error) *ImportError {
	e.Cause = err
	return e
}

// Convenience constructors for the failure taxonomy.

// ErrConfigAbsent creates a configuration-absent error.
func ErrConfigAbsent(message string) *ImportError {
	return NewError(ErrCategoryConfigAbsent, message)
}

// ErrIneligible creates an ineligible-pool error.
func ErrIneligible(message string) *ImportError {
	return NewError(ErrCategoryIneligible, message)
}

// ErrMismatch creates an OAuth-mismatch error.
func ErrMismatch(message string) *ImportError {
	return NewError(ErrCategoryMismatch, message)
}

// ErrNotFound creates a not-found error naming the missing resource.
func ErrNotFound(resourceType, resourceID string) *ImportError {
	return NewError(ErrCategoryNotFound, fmt.Sprintf("%s not found: %s", resourceType, resourceID)).
		WithResource(resourceType, resourceID)
}

// ErrUpstream creates an upstream API error.
func ErrUpstream(message string) *ImportError {
	return NewError(ErrCategoryUpstream, message)
}

// ErrAborted creates an operator-abort error.
func ErrAborted(message string) *ImportError {
	return NewError(ErrCategoryAborted, message)
}

// ErrValidation creates a validation error.
func ErrValidation(message string) *ImportError {
	return NewError(ErrCategoryValidation, message)
}

// ErrInternal creates an internal error.
func ErrInternal(message string) *ImportError {
	return NewError(ErrCategoryInternal, message)
}

// IsCategory checks if an error is of a specific category.
func IsCategory(err error, category ErrorCategory) bool {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie.Category == category
	}
	return false
}

// GetRemediation extracts remediation text from an error, if any.
func GetRemediation(err error) string {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie.Remediation
	}
	return ""
}
