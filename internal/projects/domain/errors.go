package domain

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound   = errors.New("project not found")
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports client input that cannot become a valid Project.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for field. An empty field means the whole input.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
