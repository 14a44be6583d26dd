// Package metrics defines and registers all custom Prometheus metrics
// for Castellan. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "castellan"

// StoreOpsTotal counts store operations by outcome.
// Labels:
//   - store: "session" or "directory"
//   - op: the operation name (e.g. "login", "delete")
//   - outcome: "success" or "error"
var StoreOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_ops_total",
		Help:      "Total number of store operations, labelled by outcome.",
	},
	[]string{"store", "op", "outcome"},
)

// StoreOpDuration observes the wall-clock duration of store operations,
// simulated latency included.
var StoreOpDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_op_duration_seconds",
		Help:      "Duration of store operations in seconds.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"store", "op"},
)

// NotificationsTotal counts emitted notifications.
// Label:
//   - outcome: "success" or "error"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications emitted to the presentation layer.",
	},
	[]string{"outcome"},
)

// ObserveOp records one completed store operation.
func ObserveOp(store, op string, err error, start time.Time) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	StoreOpsTotal.WithLabelValues(store, op, outcome).Inc()
	StoreOpDuration.WithLabelValues(store, op).Observe(time.Since(start).Seconds())
}
