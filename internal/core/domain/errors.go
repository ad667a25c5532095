package domain

import (
	"errors"
	"fmt"
)

// Error categories. Concrete errors wrap exactly one of these so the request
// surfaces can map them with errors.Is.
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateKey       = errors.New("already exists")
	ErrInvalidTransition  = errors.New("invalid clock transition")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

var (
	ErrWorkmanNotFound   = fmt.Errorf("workman %w", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrTimeEntryNotFound = fmt.Errorf("time entry %w", ErrNotFound)
	ErrNoActiveToken     = fmt.Errorf("active api token %w", ErrNotFound)

	ErrWorkmanExists = fmt.Errorf("trn %w", ErrDuplicateKey)
	ErrUserExists    = fmt.Errorf("username or email %w", ErrDuplicateKey)
	ErrTokenConflict = fmt.Errorf("api token %w", ErrDuplicateKey)

	ErrAlreadyClockedIn = fmt.Errorf("%w: workman is already clocked in", ErrInvalidTransition)
	ErrNotClockedIn     = fmt.Errorf("%w: cannot clock out without clocking in first", ErrInvalidTransition)

	// ErrOpenEntryExists is raised by storage when the one-open-entry
	// constraint rejects an insert. Services translate it to ErrAlreadyClockedIn.
	ErrOpenEntryExists = errors.New("open time entry already exists for workman")

	ErrCannotDeleteSelf = &ValidationError{Field: "id", Reason: "you cannot delete your own account"}
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + " " + e.Reason
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Required builds the ValidationError for a blank required field.
func Required(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}
