package workflow

import (
	"time"

	"digest-pipeline/internal/domain/entity"
)

// RunResult is the orchestrator's summary of one user's run: the rendered
// digest plus the bookkeeping totals spec §4.8 requires every run to
// surface (dead sources, AI-call/cache-hit counts, an error count summed
// across stages).
type RunResult struct {
	Payload     entity.DigestPayload
	DeadSources []string
	ErrorsCount int
	AICalls     int
	CacheHits   int
	StartedAt   time.Time
	FinishedAt  time.Time
}

// accumulate folds a batch activity's bookkeeping into the run total. Every
// activity.*Outcome embeds activity.BatchResult; callers pass its three
// counters directly rather than the struct itself.
func (r *RunResult) accumulate(errorsCount, aiCalls, cacheHits int) {
	r.ErrorsCount += errorsCount
	r.AICalls += aiCalls
	r.CacheHits += cacheHits
}
