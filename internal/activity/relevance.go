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

// RelevanceOutcome is ScoreRelevanceBatch's output: Articles carries the
// relevance_score metadata annotation forward (consumed by the similarity
// activity's primary-selection and the assembler's sort order), Results the
// full per-article breakdown keyed by URL.
type RelevanceOutcome struct {
	Articles []entity.Article
	Results  map[string]entity.RelevanceResult
	BatchResult
}

// ScoreRelevanceBatch scores every article against profile, memoized by
// cache.RelevanceKey(profile_fingerprint, canonical_url) so a profile change
// invalidates the whole batch's relevance cache at once. now is supplied by
// the caller (never read from the wall clock here) so the temporal-boost
// stage replays identically given identical inputs.
func ScoreRelevanceBatch(ctx context.Context, articles []entity.Article, profile entity.InterestProfile, cfg processor.RelevanceConfig, provider aiprovider.Provider, store cache.Store, now time.Time) RelevanceOutcome {
	out := RelevanceOutcome{
		Articles:    make([]entity.Article, 0, len(articles)),
		Results:     make(map[string]entity.RelevanceResult, len(articles)),
		BatchResult: newBatchResult(time.Now()),
	}

	fingerprint := cache.ProfileFingerprint(profile.SortedKeywords(), profile.RelevanceThreshold, profile.BoostFactor)

	for _, article := range articles {
		key := cache.RelevanceKey(fingerprint, article.URL)
		cp := newCountingProvider(provider)

		result, hit, err := runCached(ctx, store, key, cache.TTLs[cache.ActivityRelevance], func() (entity.RelevanceResult, error) {
			return processor.ScoreRelevance(ctx, article, profile, cfg, cp.asProvider(), now), nil
		})
		if err != nil {
			out.ErrorsCount++
			slog.Warn("relevance activity failed for article", slog.String("url", article.URL), slog.Any("error", err))
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
			MergeMetadata: map[string]any{"relevance_score": result.RelevanceScore, "passes_threshold": result.PassesThreshold},
		}))
	}

	out.finish(time.Now())
	return out
}
