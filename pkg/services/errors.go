// Package services holds the persistence-facing service layer: task lifecycle
// writes with FSM enforcement, event log reads, and retention deletes. The
// workflow and the API layer both go through these services; neither touches
// ent directly.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an entity does not exist in the caller's
	// workspace.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when attempting to create a duplicate entity.
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrInvalidTransition is returned when a lifecycle change violates the
	// task FSM, including any write to a terminal task.
	ErrInvalidTransition = errors.New("invalid task transition")
)

// ValidationError wraps field-specific validation errors.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
