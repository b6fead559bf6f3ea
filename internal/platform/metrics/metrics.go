// Package metrics exposes the ledger's Prometheus instruments. Instruments
// are registered once at package load; services record through the helper
// functions so tests can run without a registry of their own.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OperationsTotal counts ledger operations by name and outcome.
var OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mali_ledger_operations_total",
	Help: "Ledger operations by operation name and outcome.",
}, []string{"operation", "outcome"})

// OperationSeconds tracks end-to-end operation latency, commit included.
var OperationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "mali_ledger_operation_seconds",
	Help:    "Ledger operation latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"operation"})

// AuditDifference is the last reconciliation difference. Anything
// persistently non-zero is a conservation violation.
var AuditDifference = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "mali_ledger_audit_difference",
	Help: "Last audit difference between summed balances and issued supply.",
})

// ObserveOperation records one finished operation.
func ObserveOperation(operation string, err error, started time.Time) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	OperationsTotal.WithLabelValues(operation, outcome).Inc()
	OperationSeconds.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}
