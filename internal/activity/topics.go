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

// TopicsOutcome is ExtractTopicsBatch's output: Articles carries the
// ai_topics annotation forward.
type TopicsOutcome struct {
	Articles []entity.Article
	BatchResult
}

// ExtractTopicsBatch extracts topics for every article, memoized by
// cache.TopicsKey(canonical_url).
func ExtractTopicsBatch(ctx context.Context, articles []entity.Article, cfg processor.TopicsConfig, provider aiprovider.Provider, store cache.Store) TopicsOutcome {
	out := TopicsOutcome{
		Articles:    make([]entity.Article, 0, len(articles)),
		BatchResult: newBatchResult(time.Now()),
	}

	for _, article := range articles {
		key := cache.TopicsKey(article.URL)
		cp := newCountingProvider(provider)

		topics, hit, err := runCached(ctx, store, key, cache.TTLs[cache.ActivityTopics], func() ([]string, error) {
			return processor.ExtractTopics(ctx, article, cfg, cp.asProvider()), nil
		})
		if err != nil {
			out.ErrorsCount++
			slog.Warn("topics activity failed for article", slog.String("url", article.URL), slog.Any("error", err))
			out.Articles = append(out.Articles, article)
			continue
		}
		if hit {
			out.CacheHits++
		} else {
			out.AICalls += cp.calls
		}

		out.Articles = append(out.Articles, article.With(entity.ArticleUpdate{AITopics: topics}))
	}

	out.finish(time.Now())
	return out
}
