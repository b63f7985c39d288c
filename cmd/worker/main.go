package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"digest-pipeline/internal/aiprovider"
	"digest-pipeline/internal/cache"
	"digest-pipeline/internal/feed"
	"digest-pipeline/internal/infra/db"
	workerPkg "digest-pipeline/internal/infra/worker"
	"digest-pipeline/internal/observability/logging"
	"digest-pipeline/internal/observability/metrics"
	"digest-pipeline/internal/observability/slo"
	"digest-pipeline/internal/observability/tracing"
	"digest-pipeline/internal/repository/postgres"
	"digest-pipeline/internal/workflow"
)

func main() {
	logger := initLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	shutdownTracing := tracing.InitTracerProvider()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("max_concurrent_users", workerConfig.MaxConcurrentUsers),
		slog.Duration("run_timeout", workerConfig.RunTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	startMetricsServer(ctx, logger)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	orchestrator := setupOrchestrator(logger, database)
	userIDs := loadUserIDs(logger)

	go pollDBConnectionStats(ctx, database)

	startCronWorker(logger, orchestrator, userIDs, workerConfig, workerMetrics, healthServer)
}

// pollDBConnectionStats periodically samples the connection pool so
// db_connections_active/idle reflect live state rather than a single
// snapshot at startup.
func pollDBConnectionStats(ctx context.Context, database *sql.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := database.Stats()
			metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
		}
	}
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database connection and applies the schema.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to apply schema migrations", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// setupOrchestrator wires the workflow.Orchestrator from its runtime
// dependencies: the AI provider backend, the cache store, the feed fetcher,
// and the user configuration repository.
func setupOrchestrator(logger *slog.Logger, database *sql.DB) *workflow.Orchestrator {
	provider := createAIProvider(logger)
	store := createCacheStore(logger)

	fetchConfig, err := feed.LoadFetchConfigFromEnv()
	if err != nil {
		logger.Warn("invalid feed fetch configuration, using defaults", slog.Any("error", err))
		fetchConfig = feed.DefaultFetchConfig()
	}
	fetcher := feed.NewRSSFetcher(fetchConfig)

	repo := postgres.NewUserConfigRepo(database)

	return workflow.New(repo, provider, store, fetcher, workflow.DefaultConfig())
}

// createAIProvider selects and configures the AI provider backend from
// AI_PROVIDER / AI_MODEL / AI_MAX_TOKENS / AI_TIMEOUT_S, mirroring the
// env-var-with-validated-defaults shape used throughout this package.
func createAIProvider(logger *slog.Logger) aiprovider.Provider {
	cfg, err := aiprovider.LoadConfigFromEnv()
	if err != nil {
		logger.Error("invalid AI provider configuration", slog.Any("error", err))
		os.Exit(1)
	}

	switch cfg.Provider {
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			logger.Error("ANTHROPIC_API_KEY is required when AI_PROVIDER=claude")
			os.Exit(1)
		}
		logger.Info("using Claude for AI scoring and summarization", slog.String("model", cfg.Model))
		return aiprovider.NewClaude(apiKey, cfg)
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Error("OPENAI_API_KEY is required when AI_PROVIDER=openai")
			os.Exit(1)
		}
		logger.Info("using OpenAI for AI scoring and summarization", slog.String("model", cfg.Model))
		return aiprovider.NewOpenAI(apiKey, cfg)
	default:
		logger.Error("unknown AI provider", slog.String("provider", cfg.Provider))
		os.Exit(1)
		return nil
	}
}

// createCacheStore prefers a Redis-backed store (REDIS_ADDR) and falls back
// to the in-memory store when Redis is unreachable or unconfigured, so the
// worker still runs standalone for local/demo use.
func createCacheStore(logger *slog.Logger) cache.Store {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		logger.Info("REDIS_ADDR not set, using in-memory cache store")
		return cache.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("failed to reach redis, falling back to in-memory cache store", slog.Any("error", err))
		return cache.NewMemoryStore()
	}

	logger.Info("using redis-backed cache store", slog.String("addr", addr))
	return cache.NewRedisStore(client)
}

// loadUserIDs reads the comma-separated USER_IDS environment variable,
// falling back to the seeded demo user when unset.
func loadUserIDs(logger *slog.Logger) []string {
	raw := os.Getenv("USER_IDS")
	if raw == "" {
		logger.Info("USER_IDS not set, defaulting to the seeded demo user", slog.String("user_id", "demo-user"))
		return []string{"demo-user"}
	}

	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

// startCronWorker starts the cron scheduler and runs the digest job
// periodically.
func startCronWorker(logger *slog.Logger, orchestrator *workflow.Orchestrator, userIDs []string, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runDigestJob(logger, orchestrator, userIDs, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker marked as ready")

	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))
	select {}
}

// runDigestJob runs one digest generation pass over every configured user,
// bounded to cfg.MaxConcurrentUsers concurrent runs, each under its own
// cfg.RunTimeout deadline.
func runDigestJob(logger *slog.Logger, orchestrator *workflow.Orchestrator, userIDs []string, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	metrics.RecordJobRun("started")
	logger.Info("digest run started", slog.Int("users", len(userIDs)))

	g := new(errgroup.Group)
	g.SetLimit(cfg.MaxConcurrentUsers)

	var (
		processed, failed atomic.Int32
		durationsMu       sync.Mutex
		durations         []float64
	)
	for i, userID := range userIDs {
		userID, runID := userID, fmt.Sprintf("%s-%d-%d", userID, startTime.Unix(), i)
		g.Go(func() error {
			runCtx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
			defer cancel()
			runCtx = logging.WithRunIDValue(runCtx, runID)
			runLogger := logging.WithRunID(runCtx, logger)

			result, err := orchestrator.Run(runCtx, userID, time.Now())
			duration := result.FinishedAt.Sub(result.StartedAt)
			durationsMu.Lock()
			durations = append(durations, duration.Seconds())
			durationsMu.Unlock()

			if err != nil {
				failed.Add(1)
				runLogger.Error("digest run failed for user",
					slog.String("user_id", userID), slog.Any("error", err))
				return nil
			}

			processed.Add(1)
			runLogger.Info("digest run completed for user",
				slog.String("user_id", userID),
				slog.Int("total_articles", result.Payload.Metadata.TotalArticles),
				slog.Int("total_groups", result.Payload.Metadata.TotalGroups),
				slog.Int("ai_calls", result.AICalls),
				slog.Int("cache_hits", result.CacheHits),
				slog.Int("errors", result.ErrorsCount),
				slog.Duration("duration", duration))
			return nil
		})
	}
	_ = g.Wait() // per-user failures are logged above, never aborting the batch

	if p95, p99, ok := durationPercentiles(durations); ok {
		slo.UpdateRunDurationP95(p95)
		slo.UpdateRunDurationP99(p99)
	}

	numFailed := failed.Load()
	status := "success"
	if numFailed > 0 {
		status = "partial_failure"
	}
	metrics.RecordJobRun(status)
	metrics.RecordJobDuration(time.Since(startTime).Seconds())
	metrics.RecordUsersProcessed(int(processed.Load()))
	if numFailed == 0 {
		metrics.RecordLastSuccess()
	}

	if total := len(userIDs); total > 0 {
		slo.UpdateAvailability(float64(processed.Load()) / float64(total))
		slo.UpdateErrorRate(float64(numFailed) / float64(total))
	}

	logger.Info("digest run finished",
		slog.Int("processed", int(processed.Load())),
		slog.Int("failed", int(numFailed)),
		slog.Duration("duration", time.Since(startTime)))
}

// durationPercentiles returns the p95 and p99 of seconds, or ok=false if
// seconds is empty.
func durationPercentiles(seconds []float64) (p95, p99 float64, ok bool) {
	if len(seconds) == 0 {
		return 0, 0, false
	}
	sorted := append([]float64(nil), seconds...)
	sort.Float64s(sorted)

	idx95 := int(float64(len(sorted)-1) * 0.95)
	idx99 := int(float64(len(sorted)-1) * 0.99)
	return sorted[idx95], sorted[idx99], true
}
