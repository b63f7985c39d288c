package activity

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"digest-pipeline/internal/domain/entity"
	"digest-pipeline/internal/feed"
	"digest-pipeline/internal/observability/metrics"
)

// FetchOutcome is FetchSourcesBatch's per-article output plus the batch
// bookkeeping every activity returns.
type FetchOutcome struct {
	Articles    []entity.Article
	DeadSources []string
	BatchResult
}

// FetchSourcesBatch fans a single source list out to concurrent per-source
// fetches and unions the successes, per spec step 2: a source that fails
// is recorded in DeadSources, not propagated as a workflow error, and a
// batch with zero successful sources does not fail the activity.
func FetchSourcesBatch(ctx context.Context, sources []entity.SourceRef, fetcher *feed.RSSFetcher, now time.Time) FetchOutcome {
	out := FetchOutcome{BatchResult: newBatchResult(now)}
	results := make([]feed.FetchResult, len(sources))

	metrics.UpdateSourcesTotal(len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			start := time.Now()
			results[i] = fetcher.Fetch(gctx, src.ID, src.FeedURL, now)
			metrics.RecordFetchSource(src.ID, time.Since(start), len(results[i].Articles))
			return nil
		})
	}
	_ = g.Wait() // per-source errors are carried in results[i], never returned here

	for i, src := range sources {
		res := results[i]
		if !res.Success {
			out.DeadSources = append(out.DeadSources, src.ID)
			out.ErrorsCount++
			metrics.RecordFetchSourceError(src.ID, "fetch_failed")
			slog.Warn("source fetch failed", slog.String("source_id", src.ID), slog.String("error", res.Error))
			continue
		}
		out.Articles = append(out.Articles, res.Articles...)
	}

	out.finish(now)
	return out
}
