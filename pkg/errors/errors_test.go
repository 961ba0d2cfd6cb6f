package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError_IsErrNotFound(t *testing.T) {
	err := fmt.Errorf("load order: %w", NewNotFoundError("order", "ord_1"))

	if !errors.Is(err, ErrNotFound) {
		t.Error("Expected wrapped NotFoundError to match ErrNotFound")
	}
	if !IsNotFound(err) {
		t.Error("Expected IsNotFound to be true")
	}
	if err.Error() != "load order: order not found: ord_1" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationErrorWithCode("payment_method", "COD not available", "COD_NOT_ALLOWED")

	if !IsValidation(err) {
		t.Error("Expected IsValidation to be true")
	}
	if err.Error() != "payment_method: COD not available" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
	if IsValidation(errors.New("plain")) {
		t.Error("Expected plain error not to be a validation error")
	}
}

func TestConflictAndForbidden(t *testing.T) {
	if !IsConflict(fmt.Errorf("wrap: %w", &ConflictError{})) {
		t.Error("Expected IsConflict to be true")
	}
	if (&ConflictError{}).Error() != "conflict" {
		t.Error("Expected default conflict message")
	}
	if !IsForbidden(&ForbiddenError{Code: "COD_NOT_ALLOWED"}) {
		t.Error("Expected IsForbidden to be true")
	}
}
