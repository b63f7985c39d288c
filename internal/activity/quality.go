package activity

import (
	"context"
	"log/slog"
	"time"

	"digest-pipeline/internal/aiprovider"
	"digest-pipeline/internal/cache"
	"digest-pipeline/internal/domain/entity"
	"digest-pipeline/internal/processor"
)

// QualityOutcome is ScoreQualityBatch's output: Articles carries the
// quality_score metadata annotation forward for the relevance and assembly
// stages, Results the full breakdown keyed by URL.
type QualityOutcome struct {
	Articles []entity.Article
	Results  map[string]entity.ContentQualityResult
	BatchResult
}

// ScoreQualityBatch scores every article, memoized by
// cache.QualityKey(canonical_url). A per-article failure carries the
// article forward unannotated rather than dropping it.
func ScoreQualityBatch(ctx context.Context, articles []entity.Article, cfg processor.QualityConfig, provider aiprovider.Provider, store cache.Store) QualityOutcome {
	out := QualityOutcome{
		Articles:    make([]entity.Article, 0, len(articles)),
		Results:     make(map[string]entity.ContentQualityResult, len(articles)),
		BatchResult: newBatchResult(time.Now()),
	}

	for _, article := range articles {
		key := cache.QualityKey(article.URL)
		cp := newCountingProvider(provider)

		result, hit, err := runCached(ctx, store, key, cache.TTLs[cache.ActivityQuality], func() (entity.ContentQualityResult, error) {
			return processor.ScoreQuality(ctx, article, cfg, cp.asProvider()), nil
		})
		if err != nil {
			out.ErrorsCount++
			slog.Warn("quality activity failed for article", slog.String("url", article.URL), slog.Any("error", err))
			out.Articles = append(out.Articles, article)
			continue
		}
		if hit {
			out.CacheHits++
		} else {
			out.AICalls += cp.calls
		}

		out.Results[article.URL] = result
		out.Articles = append(out.Articles, article.With(entity.ArticleUpdate{
			MergeMetadata: map[string]any{
				"quality_score":     result.QualityScore,
				"quality_breakdown": result.Breakdown,
			},
		}))
	}

	out.finish(time.Now())
	return out
}
