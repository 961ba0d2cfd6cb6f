// Package errors defines the typed errors shared by the service layers.
// Handlers map them onto HTTP status codes.
package errors

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports a rejected request field.
type ValidationError struct {
	Field   string
	Message string
	Code    string
}

// NewValidationError creates a validation error for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithCode creates a validation error carrying a
// machine-readable code.
func NewValidationErrorWithCode(field, message, code string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Code: code}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError names the missing resource.
type NotFoundError struct {
	Resource string
	ID       string
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match a NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError is returned when a request collides with stored state,
// such as an idempotency key reused with a different payload.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "conflict"
}

// ForbiddenError is returned when a request is well formed but not allowed.
type ForbiddenError struct {
	Message string
	Code    string
}

func (e *ForbiddenError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "forbidden"
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// IsForbidden reports whether err is a ForbiddenError.
func IsForbidden(err error) bool {
	var f *ForbiddenError
	return errors.As(err, &f)
}
