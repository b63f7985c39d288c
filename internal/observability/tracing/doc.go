// Package tracing provides OpenTelemetry tracing for the digest pipeline's
// orchestrator run.
//
// StartRunSpan opens the root span for one user's run; StartStepSpan opens a
// child span per pipeline step, so a trace backend can show the fixed
// fetch/validate/normalize/score/summarize/assemble chain as nested spans
// under one trace per run.
//
// Example usage:
//
//	ctx, span := tracing.StartRunSpan(ctx, userID)
//	defer span.End()
//
//	stepCtx, stepSpan := tracing.StartStepSpan(ctx, "score_quality_batch")
//	defer stepSpan.End()
package tracing
