// Package metrics defines the custom Prometheus metrics of the time-clock
// service. Metrics are registered with the default registry on import and
// served next to the echoprometheus HTTP metrics on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "timeclock"

// ClockEventsTotal counts successful clock transitions.
// Label:
//   - action: "clock_in" or "clock_out"
var ClockEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clock_events_total",
		Help:      "Total number of successful clock-in and clock-out operations.",
	},
	[]string{"action"},
)

// TransitionRejectionsTotal counts clock requests refused by the state machine.
// Label:
//   - action: the attempted transition
var TransitionRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transition_rejections_total",
		Help:      "Total number of clock operations rejected as invalid transitions.",
	},
	[]string{"action"},
)

// AuthAttemptsTotal counts password authentications.
// Label:
//   - result: "success", "invalid", "deactivated" or "throttled"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of password authentication attempts, by result.",
	},
	[]string{"result"},
)

// WorkmenChangesTotal counts registry writes.
// Label:
//   - op: "create", "update" or "delete"
var WorkmenChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workmen_changes_total",
		Help:      "Total number of workman records created, updated or deleted.",
	},
	[]string{"op"},
)

// TokensTotal counts API token lifecycle operations.
// Label:
//   - op: "issued" or "revoked"
var TokensTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_total",
		Help:      "Total number of API tokens issued or revoked.",
	},
	[]string{"op"},
)
