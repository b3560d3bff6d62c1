// Package metrics defines and registers all custom Prometheus metrics for the
// portal gateway. It is the single source of truth for metric names, labels,
// and help strings.
//
// All metrics are registered with the default Prometheus registry through
// promauto when the package is first imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Gate metrics ──────────────────────────────────────────────────────────────

// GateDecisionsTotal counts authorization decisions.
// Labels:
//   - resource: the protected resource name (e.g. "bankers", "transfer.submit")
//   - decision: "allowed", "unauthenticated" or "forbidden"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of authorization decisions, by resource and result.",
	},
	[]string{"resource", "decision"},
)

// SessionEventsTotal counts session lifecycle events.
// Label:
//   - event: "login", "login_failed" or "logout"
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session logins, failed logins and logouts.",
	},
	[]string{"event"},
)

// ── Transfer metrics ──────────────────────────────────────────────────────────

// TransferOutcomesTotal counts submission attempts that reached the bank.
// Label:
//   - outcome: "succeeded", "retryable_failure" or "key_conflict"
var TransferOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transfer_outcomes_total",
		Help:      "Total number of transfer submission outcomes.",
	},
	[]string{"outcome"},
)

// TransferRejectionsTotal counts submissions refused before any network call.
// Label:
//   - reason: "validation" or "in_progress"
var TransferRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transfer_rejections_total",
		Help:      "Total number of transfer submissions refused locally.",
	},
	[]string{"reason"},
)

// TransferSubmitDuration measures a submission from validation to outcome.
var TransferSubmitDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transfer_submit_duration_seconds",
		Help:      "Duration of transfer submissions including the bank call.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// ── Event dispatcher metrics ──────────────────────────────────────────────────

// EventsQueueDepth tracks the number of lifecycle events waiting per worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of lifecycle events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventSinkErrorsTotal counts sink failures. They never affect the intent.
// Label:
//   - sink: "journal", "notifications", ...
var EventSinkErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_sink_errors_total",
		Help:      "Total number of lifecycle event sink failures.",
	},
	[]string{"sink"},
)

// EventsDroppedTotal counts lifecycle events the dispatcher could not queue.
// Label:
//   - reason: "queue_full", "stopping" or "cancelled"
var EventsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Total number of lifecycle events dropped before reaching a worker.",
	},
	[]string{"reason"},
)

// ── Bank client metrics ───────────────────────────────────────────────────────

// BankRequestsTotal counts outbound bank calls.
// Labels:
//   - operation: "login", "logout", "list_accounts", "create_transaction"
//   - result: HTTP status class ("2xx", "4xx", "5xx"), "transport_error" or "breaker_open"
var BankRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bank_requests_total",
		Help:      "Total number of outbound bank API calls, by operation and result.",
	},
	[]string{"operation", "result"},
)

// BankBreakerState exposes the circuit breaker state: 0 closed, 1 half-open, 2 open.
var BankBreakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "bank_breaker_state",
		Help:      "Bank API circuit breaker state (0 closed, 1 half-open, 2 open).",
	},
	[]string{"name"},
)
