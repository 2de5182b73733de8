// Package service holds the task, user directory and login workflows.
package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the workflows. They are wrapped with detail,
// so callers check them with errors.Is. The HTTP layer maps each one to a status.
var (
	// ErrUnauthenticated means the acting user does not resolve to a live account. 401.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidCredentials is a failed login. It is an ErrUnauthenticated.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)

	// ErrForbidden means the user is known but may not perform the mutation. 403.
	ErrForbidden = errors.New("access denied")

	// ErrNotFound means the referenced task or user does not exist. 404.
	ErrNotFound = errors.New("not found")

	// ErrConflict covers email uniqueness and users that still own tasks. 409.
	ErrConflict = errors.New("conflict")

	// ErrValidation means the input is malformed. 400.
	ErrValidation = errors.New("validation failed")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
