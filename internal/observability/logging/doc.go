// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for common logging patterns used throughout the digest pipeline.
//
// Key features:
//   - JSON and text output formats
//   - Run ID propagation, so every log line from one orchestrator run correlates
//   - Context-aware logging
//   - Configurable log levels
//
// Example usage:
//
//	import "digest-pipeline/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("worker started", slog.String("version", "1.0"))
//	}
//
//	func runDigest(ctx context.Context, runID string) {
//	    ctx = logging.WithRunIDValue(ctx, runID)
//	    logger := logging.WithRunID(ctx, slog.Default())
//	    logger.Info("digest run started")
//	}
package logging
