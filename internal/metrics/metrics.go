// Package metrics defines and registers all custom Prometheus metrics for
// the catalog sync layer. It is the single source of truth for metric
// names, labels, and help strings; promauto registers everything with the
// default registry at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// RefreshesTotal counts full-list resynchronizations.
// Label:
//   - outcome: "ok", "stale" (response discarded by fencing), or "error"
var RefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refreshes_total",
		Help:      "Total number of product list refreshes, by outcome.",
	},
	[]string{"outcome"},
)

// SnapshotSize tracks the number of products in the current local snapshot.
var SnapshotSize = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "snapshot_size",
		Help:      "Number of products held in the current local snapshot.",
	},
)

// MutationsTotal counts admin mutations.
// Labels:
//   - operation: "create", "update", or "delete"
//   - outcome: "ok", "validation", "auth", "network", or "server"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of admin catalog mutations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// RemoteRequestDuration measures the duration of each remote call.
// Label:
//   - call: "list", "login", "logout", "create", "update", or "delete"
var RemoteRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_request_duration_seconds",
		Help:      "Duration of calls against the storefront backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"call"},
)
