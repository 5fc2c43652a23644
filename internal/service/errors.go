package service

import (
	"errors"
	"fmt"

	"github.com/clinixnote/backend/internal/repository"
)

// Storage sentinels surface through the services unchanged.
var (
	ErrNotFound      = repository.ErrNotFound
	ErrAlreadyBooked = repository.ErrAlreadyBooked
	ErrDuplicate     = repository.ErrDuplicate
)

// ErrForbidden means the caller does not own the resource it tries to
// mutate.
var ErrForbidden = errors.New("forbidden")

// ValidationError is a caller mistake detected before any mutation.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
