package service

import (
	"errors"
	"fmt"

	"ledger-board/internal/repository"
)

var (
	// ErrUnauthenticated indicates no principal was supplied.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates the principal's role does not permit the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidID indicates the identifier is missing or not a uuid.
	// Treated as a validation failure, not as not-found.
	ErrInvalidID = errors.New("invalid id")
	// ErrNotFound mirrors the repository sentinel for callers of this package.
	ErrNotFound = repository.ErrNotFound
)

// ValidationError reports the first malformed or missing field of a payload,
// or a violated request rule such as the self-delete guard.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
