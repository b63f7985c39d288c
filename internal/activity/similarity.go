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

// similarityCacheEntry is the JSON shape stored per article pair.
type similarityCacheEntry struct {
	SimScore  float64
	Reasoning string
}

// SimilarityOutcome is DetectSimilarArticlesBatch's output.
type SimilarityOutcome struct {
	Groups []entity.ArticleGroup
	BatchResult
}

// DetectSimilarArticlesBatch compares every unordered pair of articles,
// memoized by cache.SimilarityKey(url1, url2) (order-independent), and
// groups them into connected components at cfg.Threshold. Pairs are visited
// in sorted-url order so cache writes are stable across replays, per spec
// §4.5.7. A nil provider disables similarity detection entirely: every
// article becomes its own singleton group.
func DetectSimilarArticlesBatch(ctx context.Context, articles []entity.Article, relevanceScore map[string]float64, cfg processor.SimilarityConfig, provider aiprovider.Provider, store cache.Store) SimilarityOutcome {
	out := SimilarityOutcome{BatchResult: newBatchResult(time.Now())}

	if provider == nil {
		groups := processor.BuildGroups(articles, func(string, string) bool { return false }, relevanceScore)
		out.Groups = groups
		out.finish(time.Now())
		return out
	}

	byURL := make(map[string]entity.Article, len(articles))
	for _, a := range articles {
		byURL[a.URL] = a
	}

	linked := make(map[[2]string]bool)
	for _, pair := range processor.SortedPairs(articles) {
		key := cache.SimilarityKey(pair[0], pair[1])
		cp := newCountingProvider(provider)

		entry, hit, err := runCached(ctx, store, key, cache.TTLs[cache.ActivitySimilarity], func() (similarityCacheEntry, error) {
			a, b := byURL[pair[0]], byURL[pair[1]]
			score, reasoning, err := processor.PairwiseSimilarity(ctx, a, b, cp.asProvider())
			if err != nil {
				return similarityCacheEntry{}, err
			}
			return similarityCacheEntry{SimScore: score, Reasoning: reasoning}, nil
		})
		if err != nil {
			out.ErrorsCount++
			slog.Warn("similarity activity failed for pair", slog.String("url1", pair[0]), slog.String("url2", pair[1]), slog.Any("error", err))
			continue
		}
		if hit {
			out.CacheHits++
		} else {
			out.AICalls += cp.calls
		}

		linked[pair] = entry.SimScore >= cfg.Threshold
	}

	edge := func(urlA, urlB string) bool {
		lo, hi := processor.SortedURLPair(urlA, urlB)
		return linked[[2]string{lo, hi}]
	}
	out.Groups = processor.BuildGroups(articles, edge, relevanceScore)
	out.finish(time.Now())
	return out
}
