package service

import (
	"errors"
	"fmt"
)

// Shared error taxonomy for the HTTP layer. Producers wrap one of these
// sentinels so handlers can map failures to status codes without knowing
// which component they came from.
var (
	// ErrInvalidInput marks client mistakes: unsupported file types,
	// oversized uploads, malformed collection names.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a missing resource, such as a collection that was
	// never processed.
	ErrNotFound = errors.New("not found")
	// ErrExternalService marks failures of the embedding or chat upstreams.
	ErrExternalService = errors.New("external service error")
)

// ValidationError reports which request field failed business validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
