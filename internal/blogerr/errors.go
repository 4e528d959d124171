// Package blogerr provides a lightweight structured error type (BlogkitError)
// for category-based classification across the CLI, daemon, and stores.
package blogerr

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a blogkit error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Content and repository errors
	CategoryContent    ErrorCategory = "content"
	CategoryWorkflow   ErrorCategory = "workflow"
	CategoryGit        ErrorCategory = "git"
	CategoryFileSystem ErrorCategory = "filesystem"

	// External verification errors
	CategoryLink ErrorCategory = "link"

	// Runtime and infrastructure errors
	CategoryStore    ErrorCategory = "store"
	CategoryDaemon   ErrorCategory = "daemon"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// BlogkitError is a structured error with category, retryability, and context
type BlogkitError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for BlogkitError
type ContextFields map[string]any

// Error implements the error interface
func (e *BlogkitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *BlogkitError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *BlogkitError) WithContext(key string, value any) *BlogkitError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new BlogkitError
func New(category ErrorCategory, severity ErrorSeverity, message string) *BlogkitError {
	return &BlogkitError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new BlogkitError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *BlogkitError {
	return &BlogkitError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// WrapRetryable creates a new retryable BlogkitError that wraps an existing error
func WrapRetryable(err error, category ErrorCategory, severity ErrorSeverity, message string) *BlogkitError {
	return &BlogkitError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: true,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	var be *BlogkitError
	if errors.As(err, &be) {
		return be.Category == category
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var be *BlogkitError
	if errors.As(err, &be) {
		return be.Retryable
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if the error is not a BlogkitError.
func GetCategory(err error) ErrorCategory {
	var be *BlogkitError
	if errors.As(err, &be) {
		return be.Category
	}
	return CategoryInternal
}
