// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the digest pipeline's fine-grained metrics:
//   - Business metrics (articles fetched/summarized, digest/source totals)
//   - AI provider call and cache lookup counters, by activity and outcome
//   - Database query metrics
//
// Per-run job metrics (job started/finished, users processed) live in
// internal/infra/worker.WorkerMetrics instead; both registries are exposed
// together via the /metrics endpoint started in cmd/worker.
//
// Example usage:
//
//	import "digest-pipeline/internal/observability/metrics"
//
//	func fetchSource(sourceID string) {
//	    start := time.Now()
//	    // ... fetch source ...
//	    count := 10
//
//	    metrics.RecordFetchSource(sourceID, time.Since(start), count)
//	}
package metrics
