// Package metrics provides centralized Prometheus metrics for the digest
// pipeline's per-article and per-query instrumentation. Per-run counters
// (jobs started/finished, users processed) live in
// internal/infra/worker.WorkerMetrics instead; this package covers the
// finer-grained business metrics business.go's recorders update from inside
// the workflow's activities.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Business metrics track pipeline-specific operations
var (
	// ArticlesTotal tracks the number of articles carried into the most recent digest.
	ArticlesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "digest_articles_total",
			Help: "Number of articles included in the most recently assembled digest",
		},
	)

	// SourcesTotal tracks the number of sources configured for the most recent run.
	SourcesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "digest_sources_total",
			Help: "Number of sources fetched in the most recent run",
		},
	)

	// ArticlesFetchedTotal counts articles fetched from each source
	ArticlesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_fetched_total",
			Help: "Total number of articles fetched from sources",
		},
		[]string{"source", "source_id"},
	)

	// ArticlesSummarizedTotal counts articles summarized by status
	ArticlesSummarizedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_summarized_total",
			Help: "Total number of articles summarized",
		},
		[]string{"status"},
	)

	// SummarizationDuration measures time to summarize an article
	SummarizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarization_duration_seconds",
			Help:    "Time taken to summarize an article",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// FetchSourceDuration measures time to fetch one source's feed
	FetchSourceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fetch_source_duration_seconds",
			Help:    "Time taken to fetch a single source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"source_id"},
	)

	// FetchSourceErrors counts errors during source fetching
	FetchSourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_source_errors_total",
			Help: "Total number of source fetch errors",
		},
		[]string{"source_id", "error_type"},
	)

	// AICallsTotal counts AI provider calls made by each activity, by outcome.
	AICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_calls_total",
			Help: "Total number of AI provider calls",
		},
		[]string{"activity", "outcome"}, // outcome: ok, error, budget_exhausted
	)

	// CacheLookupsTotal counts cache lookups by activity and result.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Total number of cache lookups",
		},
		[]string{"activity", "result"}, // result: hit, miss
	)

	// ContentEnhancementAttemptsTotal counts full-article content fetches by outcome.
	ContentEnhancementAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_enhancement_attempts_total",
			Help: "Total number of full-article content enhancement attempts",
		},
		[]string{"outcome"}, // outcome: enhanced, skipped_too_short, failed
	)

	// ContentEnhancementDuration measures time to fetch and extract one article's full content
	ContentEnhancementDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_enhancement_duration_seconds",
			Help:    "Time taken to fetch and extract one article's full content",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)
