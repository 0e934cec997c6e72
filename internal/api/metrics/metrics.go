// Package metrics defines and registers all custom Prometheus metrics for the
// service tracker API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// init through promauto; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "service_tracker"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts accounts created through self-registration or by an admin.
// Labels:
//   - role: role of the new account
//   - channel: "self" or "admin"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of user accounts created.",
	},
	[]string{"role", "channel"},
)

// AccessDeniedTotal counts requests rejected by the bearer token check or the role gate.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests rejected by authentication or authorization.",
	},
	[]string{"reason"},
)

// ── Document metrics ──────────────────────────────────────────────────────────

// DocumentsCreatedTotal counts newly registered documents.
// Label:
//   - document_type: e.g. "Combined Summons"
var DocumentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_created_total",
		Help:      "Total number of documents registered, by document type.",
	},
	[]string{"document_type"},
)

// DocumentStatusChangesTotal counts service status updates.
// Label:
//   - status: the status applied
var DocumentStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "document_status_changes_total",
		Help:      "Total number of document service status updates, by new status.",
	},
	[]string{"status"},
)

// AttemptsRecordedTotal counts service attempts appended to documents.
var AttemptsRecordedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attempts_recorded_total",
		Help:      "Total number of service attempts recorded.",
	},
)

// ── Instruction metrics ───────────────────────────────────────────────────────

// InstructionUpdatesTotal counts instruction updates.
// Labels:
//   - role: role of the actor ("attorney" or "sheriff")
//   - status: status after the update
var InstructionUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "instruction_updates_total",
		Help:      "Total number of instruction updates, by actor role and resulting status.",
	},
	[]string{"role", "status"},
)

// ── Assignment index metrics ──────────────────────────────────────────────────

// AssignmentQueueDepth tracks the number of assignment changes waiting to be applied.
var AssignmentQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "assignment_queue_depth",
		Help:      "Current number of deputy assignment changes pending in the dispatcher.",
	},
)

// AssignmentSyncTotal counts applied assignment changes.
// Label:
//   - result: "ok" or "error"
var AssignmentSyncTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignment_sync_total",
		Help:      "Total number of deputy assignment changes applied, by result.",
	},
	[]string{"result"},
)

// AssignmentObserver reports dispatcher activity to the assignment metrics.
type AssignmentObserver struct{}

func (AssignmentObserver) Queued(delta int) { AssignmentQueueDepth.Add(float64(delta)) }

func (AssignmentObserver) Applied(err error) {
	if err != nil {
		AssignmentSyncTotal.WithLabelValues("error").Inc()
		return
	}
	AssignmentSyncTotal.WithLabelValues("ok").Inc()
}
