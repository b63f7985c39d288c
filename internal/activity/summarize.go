package activity

import (
	"context"
	"log/slog"
	"time"

	"digest-pipeline/internal/aiprovider"
	"digest-pipeline/internal/cache"
	"digest-pipeline/internal/domain/entity"
	"digest-pipeline/internal/observability/metrics"
	"digest-pipeline/internal/processor"
)

// SummarizeOutcome is SummarizeArticlesBatch's output: Articles carries the
// Summary field forward.
type SummarizeOutcome struct {
	Articles []entity.Article
	BatchResult
}

// SummarizeArticlesBatch summarizes every article in style, memoized by
// cache.SummarizeKey(canonical_url, style) — a style change invalidates just
// that style's cache entries, not the whole article.
func SummarizeArticlesBatch(ctx context.Context, articles []entity.Article, style entity.SummaryStyle, cfg processor.SummarizerConfig, provider aiprovider.Provider, store cache.Store) SummarizeOutcome {
	out := SummarizeOutcome{
		Articles:    make([]entity.Article, 0, len(articles)),
		BatchResult: newBatchResult(time.Now()),
	}

	for _, article := range articles {
		key := cache.SummarizeKey(article.URL, string(style))
		cp := newCountingProvider(provider)

		start := time.Now()
		result, hit, err := runCached(ctx, store, key, cache.TTLs[cache.ActivitySummarize], func() (entity.SummaryResult, error) {
			return processor.Summarize(ctx, article, style, cfg, cp.asProvider()), nil
		})
		metrics.RecordCacheLookup("summarize_articles_batch", hit)
		if err != nil {
			out.ErrorsCount++
			metrics.RecordArticleSummarized(false)
			metrics.RecordAICall("summarize_articles_batch", "error")
			slog.Warn("summarize activity failed for article", slog.String("url", article.URL), slog.Any("error", err))
			out.Articles = append(out.Articles, article)
			continue
		}
		if hit {
			out.CacheHits++
		} else {
			out.AICalls += cp.calls
			metrics.RecordAICall("summarize_articles_batch", "ok")
			metrics.RecordSummarizationDuration(time.Since(start))
		}
		metrics.RecordArticleSummarized(true)

		out.Articles = append(out.Articles, article.With(entity.ArticleUpdate{Summary: &result.Summary}))
	}

	out.finish(time.Now())
	return out
}
