package service

import (
	"errors"
	"fmt"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

var categories = []error{
	domain.ErrUnauthenticated,
	domain.ErrForbidden,
	domain.ErrNotFound,
	domain.ErrValidation,
	domain.ErrDuplicateKey,
	domain.ErrInvalidTransition,
	domain.ErrAccountDeactivated,
	domain.ErrInvalidCredentials,
	domain.ErrTooManyAttempts,
}

// wrap returns categorised domain errors untouched so their message reaches
// the caller, and prefixes anything else with op.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, c := range categories {
		if errors.Is(err, c) {
			return err
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
