// Package errors provides custom error types for the snapserve system.
// These errors enable programmatic error checking and consistent HTTP
// status mapping throughout the application.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's tree matches target.
var Is = errors.Is

// As finds the first error in err's tree that matches target.
var As = errors.As

// Wrap annotates err with a message. Returns nil when err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf annotates err with a formatted message. Returns nil when err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Common sentinel errors for the snapserve system.
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates that the caller is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates that the caller's role does not permit the action
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates that a dependency is temporarily unavailable
	ErrUnavailable = errors.New("unavailable")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// PermissionError represents an action blocked by the caller's role.
type PermissionError struct {
	Role   string
	Action string
}

// Error implements the error interface.
func (e *PermissionError) Error() string {
	return fmt.Sprintf("role %s may not %s", e.Role, e.Action)
}

// Is implements errors.Is support.
func (e *PermissionError) Is(target error) bool {
	return target == ErrForbidden
}

// NewPermissionError creates a new PermissionError.
func NewPermissionError(role, action string) *PermissionError {
	return &PermissionError{Role: role, Action: action}
}

// AssistantError represents a failure from the AI assistant layer.
// Assistant errors are advisory: callers degrade to defaults rather
// than failing the triggering request.
type AssistantError struct {
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *AssistantError) Error() string {
	return fmt.Sprintf("assistant %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *AssistantError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *AssistantError) Is(target error) bool {
	return target == ErrUnavailable
}

// NewAssistantError creates a new AssistantError.
func NewAssistantError(operation string, err error) *AssistantError {
	return &AssistantError{Operation: operation, Err: err}
}
