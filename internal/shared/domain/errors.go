package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by every bounded context. Handlers wrap these with
// operation-specific messages; callers branch with errors.Is.
var (
	// ErrValidation indicates malformed input. Reported synchronously,
	// never retried.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the caller lacks authorization.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict indicates a uniqueness or concurrent-write violation.
	ErrConflict = errors.New("conflict")

	// ErrStorage indicates the underlying store operation failed. The
	// triggering mutation is considered not applied.
	ErrStorage = errors.New("storage failure")
)

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Forbiddenf wraps ErrForbidden with a formatted message.
func Forbiddenf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// Conflictf wraps ErrConflict with a formatted message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Storagef wraps ErrStorage around an underlying driver error.
func Storagef(op string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, cause)
}
