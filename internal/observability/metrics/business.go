package metrics

import (
	"fmt"
	"time"
)

// RecordArticlesFetched records the number of articles fetched from a source.
func RecordArticlesFetched(sourceName string, sourceID int64, count int) {
	ArticlesFetchedTotal.WithLabelValues(
		sourceName,
		fmt.Sprintf("%d", sourceID),
	).Add(float64(count))
}

// RecordArticleSummarized records the result of an article summarization operation.
// Status should be either "success" or "failure".
func RecordArticleSummarized(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	ArticlesSummarizedTotal.WithLabelValues(status).Inc()
}

// RecordSummarizationDuration records the time taken to summarize an article.
func RecordSummarizationDuration(duration time.Duration) {
	SummarizationDuration.Observe(duration.Seconds())
}

// RecordFetchSource records metrics for fetching a single source's feed.
func RecordFetchSource(sourceID string, duration time.Duration, itemsFound int) {
	FetchSourceDuration.WithLabelValues(sourceID).Observe(duration.Seconds())
	if itemsFound > 0 {
		RecordArticlesFetched("", 0, itemsFound)
	}
}

// RecordFetchSourceError records an error fetching a source.
func RecordFetchSourceError(sourceID, errorType string) {
	FetchSourceErrors.WithLabelValues(sourceID, errorType).Inc()
}

// RecordContentEnhancement records the outcome of a full-article content
// enhancement attempt: "enhanced" (content replaced), "skipped_too_short"
// (extracted content wasn't longer than the original), or "failed" (fetch
// or extraction error, original content kept).
func RecordContentEnhancement(outcome string, duration time.Duration) {
	ContentEnhancementAttemptsTotal.WithLabelValues(outcome).Inc()
	ContentEnhancementDuration.Observe(duration.Seconds())
}

// UpdateArticlesTotal sets the article count carried into the most recent digest.
func UpdateArticlesTotal(count int) {
	ArticlesTotal.Set(float64(count))
}

// UpdateSourcesTotal sets the source count fetched in the most recent run.
func UpdateSourcesTotal(count int) {
	SourcesTotal.Set(float64(count))
}

// RecordAICall records an AI provider call made during activity, by outcome:
// "ok", "error", or "budget_exhausted" (the per-run cap was already spent).
func RecordAICall(activity, outcome string) {
	AICallsTotal.WithLabelValues(activity, outcome).Inc()
}

// RecordCacheLookup records a cache lookup's hit/miss result for an activity.
func RecordCacheLookup(activity string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(activity, result).Inc()
}

// RecordDBQuery records the duration of a database query operation.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
