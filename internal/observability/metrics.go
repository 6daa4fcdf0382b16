// ABOUTME: Prometheus instrumentation for the record store.
// ABOUTME: Counts operation outcomes, latencies, and connection failures.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation outcomes.
const (
	ResultOK      = "ok"
	ResultMiss    = "miss"
	ResultFailed  = "failed"
	ResultInvalid = "invalid"
)

var (
	storeOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bodylog",
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Record store operations by operation and outcome.",
	}, []string{"op", "result"})

	storeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bodylog",
		Subsystem: "store",
		Name:      "operation_duration_seconds",
		Help:      "Wall time of record store operations, connection included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	connectionFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bodylog",
		Name:      "connection_failures_total",
		Help:      "Connections the provider could not establish.",
	})
)

func init() {
	prometheus.MustRegister(storeOperations, storeDuration, connectionFailures)
}

// ObserveOperation records the outcome and latency of one store call.
func ObserveOperation(op, result string, elapsed time.Duration) {
	storeOperations.WithLabelValues(op, result).Inc()
	if result != ResultInvalid {
		storeDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	}
}

// RecordConnectionFailure increments the connection failure counter.
func RecordConnectionFailure() {
	connectionFailures.Inc()
}

// OperationCounter exposes the counter for one op/result pair.
func OperationCounter(op, result string) prometheus.Counter {
	return storeOperations.WithLabelValues(op, result)
}

// ConnectionFailures exposes the connection failure counter.
func ConnectionFailures() prometheus.Counter {
	return connectionFailures
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
