// Package metrics defines the custom Prometheus collectors of the inventory
// API. Collectors register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "inventory"

// ── Gate metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts credential checks performed by the gate.
// Label:
//   - outcome: "success", "malformed", "rejected" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of credential checks, by outcome.",
	},
	[]string{"outcome"},
)

// AccessDecisionsTotal counts gate decisions.
// Labels:
//   - requirement: "NONE", "ANY_AUTHENTICATED" or a role name
//   - decision: "allowed", "unauthenticated" or "forbidden"
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total number of access decisions taken by the request gate.",
	},
	[]string{"requirement", "decision"},
)

// AuthDuration measures credential verification latency, dominated by bcrypt.
var AuthDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "auth_duration_seconds",
		Help:      "Duration of credential verification.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1},
	},
)

// ── Inventory metrics ─────────────────────────────────────────────────────────

// ItemMutationsTotal counts item writes.
// Label:
//   - op: "create", "update" or "delete"
var ItemMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "item_mutations_total",
		Help:      "Total number of item writes, by operation.",
	},
	[]string{"op"},
)

// RequestsCreatedTotal counts stock requests.
// Label:
//   - result: "created" or "replayed"
var RequestsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_created_total",
		Help:      "Total number of stock request submissions, by result.",
	},
	[]string{"result"},
)

// RequestStatusChangesTotal counts admin updates by resulting status.
var RequestStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_status_changes_total",
		Help:      "Total number of stock request updates, by resulting status.",
	},
	[]string{"status"},
)
