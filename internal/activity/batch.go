// Package activity wraps each processor in the cache-check → processor-call
// → cache-store → metrics shape the spec requires of every activity: per
// spec §4.7, identical inputs must replay to identical cached results, and
// per-article failures are counted rather than failing the whole activity.
package activity

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"digest-pipeline/internal/cache"
)

// BatchResult is the shared summary every activity returns alongside its
// per-article output.
type BatchResult struct {
	AICalls     int
	CacheHits   int
	ErrorsCount int
	StartedAt   time.Time
	FinishedAt  time.Time
}

// newBatchResult starts a BatchResult's timing window.
func newBatchResult(startedAt time.Time) BatchResult {
	return BatchResult{StartedAt: startedAt}
}

func (b *BatchResult) finish(finishedAt time.Time) {
	b.FinishedAt = finishedAt
}

// runCached implements the cache-check/compute/cache-store pattern shared by
// every memoized activity. On a cache hit it unmarshals the stored result;
// a corrupt cache entry is deleted and treated as a miss rather than failing
// the run, per the cache layer's corruption contract. cacheHit reports
// whether the result came from the cache; AI calls are tallied by callers
// through the countingProvider that compute calls.
func runCached[R any](ctx context.Context, store cache.Store, key string, ttl time.Duration, compute func() (R, error)) (result R, cacheHit bool, err error) {
	if store != nil {
		if raw, ok, getErr := store.Get(ctx, key); getErr == nil && ok {
			var cached R
			if unmarshalErr := json.Unmarshal(raw, &cached); unmarshalErr == nil {
				return cached, true, nil
			}
			slog.Warn("cache entry corrupt, recomputing", slog.String("key", key))
			_ = store.Delete(ctx, key)
		} else if getErr != nil {
			slog.Warn("cache get failed, treating as miss", slog.String("key", key), slog.Any("error", getErr))
		}
	}

	result, err = compute()
	if err != nil {
		return result, false, err
	}

	if store != nil {
		if raw, marshalErr := json.Marshal(result); marshalErr == nil {
			if setErr := store.Set(ctx, key, raw, ttl); setErr != nil {
				slog.Warn("cache set failed", slog.String("key", key), slog.Any("error", setErr))
			}
		}
	}

	return result, false, nil
}
