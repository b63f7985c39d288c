// Package workflow sequences the pipeline's activities into one
// deterministic run per user, per spec §4.8. It is written as a plain
// function call chain rather than against a workflow engine's SDK: every
// decision an activity makes is a pure function of its inputs plus the
// caller-supplied now, so replaying a run with identical inputs reproduces
// identical output — the property a real workflow engine's history replay
// would otherwise have to provide.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digest-pipeline/internal/activity"
	"digest-pipeline/internal/aiprovider"
	"digest-pipeline/internal/assemble"
	"digest-pipeline/internal/cache"
	"digest-pipeline/internal/domain/entity"
	"digest-pipeline/internal/feed"
	"digest-pipeline/internal/observability/metrics"
	"digest-pipeline/internal/observability/tracing"
	"digest-pipeline/internal/repository"
	"digest-pipeline/internal/resilience/retry"
)

// activityTimeout pairs a step's hard deadline with the retry class that
// governs re-attempts when that deadline is hit, per spec §4.8's per-activity
// timeout+retry classes.
type activityTimeout struct {
	timeout time.Duration
	retry   retry.Config
}

var (
	fastActivityTimeout = activityTimeout{timeout: 30 * time.Second, retry: retry.FastActivityConfig()}
	slowActivityTimeout = activityTimeout{timeout: 120 * time.Second, retry: retry.SlowActivityConfig()}
)

// runActivityStep runs fn under a per-attempt deadline of at.timeout,
// retrying the whole step per at.retry's attempt count and backoff schedule
// when an attempt fails to finish in time. A batch activity's own
// per-article failures already degrade gracefully via its Outcome's
// ErrorsCount rather than a returned error, so a timed-out attempt — not an
// error value — is the only failure mode worth retrying at this level;
// retry.WithBackoff itself doesn't apply here since retry.IsRetryable always
// treats context.DeadlineExceeded as non-retryable (it's ordinarily the
// caller's own cancellation, not a symptom to retry past).
func runActivityStep[T any](ctx context.Context, at activityTimeout, fn func(context.Context) T) T {
	var out T
	delay := at.retry.InitialDelay

	for attempt := 1; attempt <= at.retry.MaxAttempts; attempt++ {
		stepCtx, cancel := context.WithTimeout(ctx, at.timeout)
		out = fn(stepCtx)
		timedOut := errors.Is(stepCtx.Err(), context.DeadlineExceeded)
		cancel()

		if !timedOut || attempt == at.retry.MaxAttempts {
			return out
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return out
		}

		delay = time.Duration(float64(delay) * at.retry.Multiplier)
		if delay > at.retry.MaxDelay {
			delay = at.retry.MaxDelay
		}
	}
	return out
}

// Orchestrator holds the dependencies shared by every run: the repository
// the first step reads from, the AI provider and cache store every scoring
// activity shares, and the feed fetcher fetch_sources_parallel drives.
type Orchestrator struct {
	Users    repository.UserConfigRepository
	Provider aiprovider.Provider
	Cache    cache.Store
	Fetcher  *feed.RSSFetcher
	Config   Config
}

// New builds an Orchestrator from its dependencies, defaulting Config when
// the caller has no overrides.
func New(users repository.UserConfigRepository, provider aiprovider.Provider, store cache.Store, fetcher *feed.RSSFetcher, cfg Config) *Orchestrator {
	return &Orchestrator{Users: users, Provider: provider, Cache: store, Fetcher: fetcher, Config: cfg}
}

// Run executes one full digest run for userID: fetch_user_config,
// fetch_sources_parallel, validate_and_filter_batch,
// normalize_articles_batch, score_quality_batch, extract_topics_batch,
// score_relevance_batch, summarize_articles_batch,
// detect_similar_articles_batch, assemble_digest — in that fixed order, per
// spec §4.8. now is the single source of truth for every time-dependent
// decision made during the run; Run itself never calls time.Now() except to
// stamp RunResult's own start/finish telemetry, which has no bearing on
// what the run decided.
func (o *Orchestrator) Run(ctx context.Context, userID string, now time.Time) (RunResult, error) {
	ctx, span := tracing.StartRunSpan(ctx, userID)
	defer span.End()

	result := RunResult{StartedAt: time.Now()}

	userCfg, err := o.fetchUserConfig(ctx, userID)
	if err != nil {
		result.FinishedAt = time.Now()
		return result, err
	}

	// A fresh budget per run: the cap never carries over between users or
	// between replays of the same user.
	provider := activity.NewBudgetedProvider(o.Provider, o.Config.MaxAICallsPerRun)

	fetchCtx, fetchSpan := tracing.StartStepSpan(ctx, "fetch_sources_parallel")
	fetchOut := activity.FetchSourcesBatch(fetchCtx, userCfg.Sources, o.Fetcher, now)
	fetchSpan.End()
	result.DeadSources = fetchOut.DeadSources
	result.accumulate(fetchOut.ErrorsCount, fetchOut.AICalls, fetchOut.CacheHits)

	validateCtx, validateSpan := tracing.StartStepSpan(ctx, "validate_and_filter_batch")
	validateOut := runActivityStep(validateCtx, fastActivityTimeout, func(stepCtx context.Context) activity.ValidateOutcome {
		return activity.ValidateAndFilterBatch(stepCtx, fetchOut.Articles, o.Config.Validator, provider, o.Cache)
	})
	validateSpan.End()
	result.accumulate(validateOut.ErrorsCount, validateOut.AICalls, validateOut.CacheHits)

	// normalize_articles_batch is pure in-process text normalization with no
	// I/O and no context parameter — it cannot hang, so it carries no
	// timeout/retry wrapper despite sharing the fast activity class.
	_, normalizeSpan := tracing.StartStepSpan(ctx, "normalize_articles_batch")
	normalizeOut := activity.NormalizeArticlesBatch(validateOut.Kept, o.Config.Normalizer)
	normalizeSpan.End()
	result.accumulate(normalizeOut.ErrorsCount, normalizeOut.AICalls, normalizeOut.CacheHits)

	qualityCtx, qualitySpan := tracing.StartStepSpan(ctx, "score_quality_batch")
	qualityOut := runActivityStep(qualityCtx, slowActivityTimeout, func(stepCtx context.Context) activity.QualityOutcome {
		return activity.ScoreQualityBatch(stepCtx, normalizeOut.Articles, o.Config.Quality, provider, o.Cache)
	})
	qualitySpan.End()
	result.accumulate(qualityOut.ErrorsCount, qualityOut.AICalls, qualityOut.CacheHits)

	topicsCtx, topicsSpan := tracing.StartStepSpan(ctx, "extract_topics_batch")
	topicsOut := runActivityStep(topicsCtx, slowActivityTimeout, func(stepCtx context.Context) activity.TopicsOutcome {
		return activity.ExtractTopicsBatch(stepCtx, qualityOut.Articles, o.Config.Topics, provider, o.Cache)
	})
	topicsSpan.End()
	result.accumulate(topicsOut.ErrorsCount, topicsOut.AICalls, topicsOut.CacheHits)

	relevanceCtx, relevanceSpan := tracing.StartStepSpan(ctx, "score_relevance_batch")
	relevanceOut := runActivityStep(relevanceCtx, fastActivityTimeout, func(stepCtx context.Context) activity.RelevanceOutcome {
		return activity.ScoreRelevanceBatch(stepCtx, topicsOut.Articles, userCfg.InterestProfile, o.Config.Relevance, provider, o.Cache, now)
	})
	relevanceSpan.End()
	result.accumulate(relevanceOut.ErrorsCount, relevanceOut.AICalls, relevanceOut.CacheHits)

	summarizeCtx, summarizeSpan := tracing.StartStepSpan(ctx, "summarize_articles_batch")
	summarizeOut := runActivityStep(summarizeCtx, slowActivityTimeout, func(stepCtx context.Context) activity.SummarizeOutcome {
		return activity.SummarizeArticlesBatch(stepCtx, relevanceOut.Articles, userCfg.InterestProfile.SummaryStyle, o.Config.Summarizer, provider, o.Cache)
	})
	summarizeSpan.End()
	result.accumulate(summarizeOut.ErrorsCount, summarizeOut.AICalls, summarizeOut.CacheHits)

	similarityCtx, similaritySpan := tracing.StartStepSpan(ctx, "detect_similar_articles_batch")
	similarityOut := runActivityStep(similarityCtx, slowActivityTimeout, func(stepCtx context.Context) activity.SimilarityOutcome {
		return activity.DetectSimilarArticlesBatch(stepCtx, summarizeOut.Articles, relevanceScores(relevanceOut.Results), o.Config.Similarity, provider, o.Cache)
	})
	similaritySpan.End()
	result.accumulate(similarityOut.ErrorsCount, similarityOut.AICalls, similarityOut.CacheHits)

	payload, err := assemble.Assemble(userCfg.UserID, userCfg.Email, userCfg.Timezone, similarityOut.Groups, relevanceOut.Results, now)
	if err != nil {
		result.FinishedAt = time.Now()
		return result, entity.NewPipelineError(entity.KindFatal, "assemble_digest", err)
	}
	metrics.UpdateArticlesTotal(payload.Metadata.TotalArticles)

	result.Payload = payload
	result.FinishedAt = time.Now()
	return result, nil
}

// fetchUserConfig retries transient read failures under DBReadConfig and
// surfaces anything left over — including ErrNotFound — as a fatal,
// workflow-terminating PipelineError. The repository's own error (a pgx/sql
// driver error on a connectivity blip, or ErrNotFound on a bad userID) is
// what retry.WithBackoff's IsRetryable inspects, not a pre-wrapped
// PipelineError, so ordinary transient-network classification still
// applies; only the final error returned to the caller is wrapped.
func (o *Orchestrator) fetchUserConfig(ctx context.Context, userID string) (*entity.UserConfig, error) {
	readCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cfg *entity.UserConfig
	err := retry.WithBackoff(readCtx, retry.DBReadConfig(), func() error {
		var fetchErr error
		cfg, fetchErr = o.Users.FetchByID(readCtx, userID)
		return fetchErr
	})
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.NewPipelineError(entity.KindFatal, "fetch_user_config", entity.ErrNotFound)
		}
		return nil, entity.NewPipelineError(entity.KindFatal, "fetch_user_config", fmt.Errorf("fetch_user_config: %w", err))
	}
	return cfg, nil
}

// relevanceScores flattens the relevance activity's per-article results
// into the score map similarity grouping's primary-selection needs.
func relevanceScores(results map[string]entity.RelevanceResult) map[string]float64 {
	scores := make(map[string]float64, len(results))
	for url, r := range results {
		scores[url] = r.RelevanceScore
	}
	return scores
}
