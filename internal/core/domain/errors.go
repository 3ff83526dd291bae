// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested item does not exist
	ErrNotFound = errors.New("item not found")

	// ErrSKUConflict indicates an insert or update collided with an
	// existing item's SKU
	ErrSKUConflict = errors.New("SKU already exists")
)

// ValidationError indicates a required field was missing or malformed
// in client-supplied data
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Missing required field: %s", e.Field)
}

// NewMissingFieldError reports a required field absent from input
func NewMissingFieldError(field string) *ValidationError {
	return &ValidationError{Field: field}
}

// NewValidationError reports input that is present but unusable
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
