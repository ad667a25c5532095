package metrics

import (
	"errors"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

// ObserveClock records the outcome of a clock transition. Errors other than
// invalid transitions are not counted.
func ObserveClock(action string, err error) {
	switch {
	case err == nil:
		ClockEventsTotal.WithLabelValues(action).Inc()
	case errors.Is(err, domain.ErrInvalidTransition):
		TransitionRejectionsTotal.WithLabelValues(action).Inc()
	}
}

// ObserveAuth records the outcome of a password authentication.
func ObserveAuth(err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrTooManyAttempts):
		result = "throttled"
	case errors.Is(err, domain.ErrAccountDeactivated):
		result = "deactivated"
	case errors.Is(err, domain.ErrInvalidCredentials):
		result = "invalid"
	default:
		return
	}
	AuthAttemptsTotal.WithLabelValues(result).Inc()
}
