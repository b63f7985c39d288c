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

// ValidateOutcome is ValidateAndFilterBatch's output: Kept holds the
// articles that passed, Results every article's verdict keyed by URL (so
// rejected articles stay addressable for logging without being carried
// forward into later activities).
type ValidateOutcome struct {
	Kept    []entity.Article
	Results map[string]entity.ValidationResult
	BatchResult
}

// ValidateAndFilterBatch runs the validator over every article, memoized by
// cache.ValidateKey(title, content). Per-article failures never abort the
// batch; they are counted and the article is dropped from Kept.
func ValidateAndFilterBatch(ctx context.Context, articles []entity.Article, cfg processor.ValidatorConfig, provider aiprovider.Provider, store cache.Store) ValidateOutcome {
	out := ValidateOutcome{
		Results:     make(map[string]entity.ValidationResult, len(articles)),
		BatchResult: newBatchResult(time.Now()),
	}

	for _, article := range articles {
		key := cache.ValidateKey(article.Title, article.Content)
		cp := newCountingProvider(provider)

		result, hit, err := runCached(ctx, store, key, cache.TTLs[cache.ActivityValidate], func() (entity.ValidationResult, error) {
			return processor.Validate(ctx, article, cfg, cp.asProvider()), nil
		})
		if err != nil {
			out.ErrorsCount++
			slog.Warn("validate activity failed for article", slog.String("url", article.URL), slog.Any("error", err))
			continue
		}
		if hit {
			out.CacheHits++
		} else {
			out.AICalls += cp.calls
		}

		out.Results[article.URL] = result
		if result.Passed {
			out.Kept = append(out.Kept, article)
		}
	}

	out.finish(time.Now())
	return out
}
