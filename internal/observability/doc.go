// Package observability provides the digest pipeline's observability
// infrastructure: structured logging, Prometheus metrics, OpenTelemetry
// tracing, and SLO tracking.
//
// Subpackages:
//   - logging: structured logging with slog, correlated by run ID
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry tracing of one orchestrator run and its steps
//   - slo: service-level objective targets and gauges
//
// Example usage:
//
//	import (
//	    "digest-pipeline/internal/observability/logging"
//	    "digest-pipeline/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("worker started")
//
//	    metrics.RecordArticlesFetched("example-source", 1, 10)
//	}
package observability
