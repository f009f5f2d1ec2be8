// Package metrics provides the centralized Prometheus metrics registry for
// the cache warmer. All metrics are defined in their respective packages
// (warmup, dispatch) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the cache warmer.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Pool Metrics (pkg/warmup):
//   - warmup_in_flight_requests (Gauge): Requests currently in flight; never
//     exceeds the configured concurrency
//   - warmup_outcomes_total{result} (Counter): Outcomes by result (success, failure)
//
// Dispatch Metrics (pkg/dispatch):
//   - warmup_requests_total{status} (Counter): Completed round trips by terminal HTTP status
//   - warmup_request_duration_seconds (Histogram): Request duration
//   - warmup_errors_total{class} (Counter): Failures by class (client, server, timeout, network)
//
// Example Prometheus Queries:
//
//   # Failure Rate
//   sum(rate(warmup_outcomes_total{result="failure"}[5m])) /
//   sum(rate(warmup_outcomes_total[5m]))
//
//   # Concurrency Utilization
//   warmup_in_flight_requests
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(warmup_request_duration_seconds_bucket[5m]))
