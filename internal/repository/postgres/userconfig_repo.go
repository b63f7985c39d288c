package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"digest-pipeline/internal/domain/entity"
	"digest-pipeline/internal/observability/metrics"
	"digest-pipeline/internal/repository"
)

type UserConfigRepo struct{ db *sql.DB }

func NewUserConfigRepo(db *sql.DB) repository.UserConfigRepository {
	return &UserConfigRepo{db: db}
}

// sourceRow mirrors one entry of the user_configs.sources JSONB column.
type sourceRow struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	FeedURL string `json:"feed_url"`
}

func (repo *UserConfigRepo) FetchByID(ctx context.Context, userID string) (*entity.UserConfig, error) {
	const query = `
SELECT user_id, email, timezone, keywords, relevance_threshold, boost_factor, summary_style, sources
FROM user_configs
WHERE user_id = $1
LIMIT 1`

	var (
		cfg          entity.UserConfig
		keywordsJSON []byte
		sourcesJSON  []byte
		summaryStyle string
		threshold    int
		boost        float64
	)

	start := time.Now()
	err := repo.db.QueryRowContext(ctx, query, userID).Scan(
		&cfg.UserID, &cfg.Email, &cfg.Timezone, &keywordsJSON, &threshold, &boost, &summaryStyle, &sourcesJSON,
	)
	metrics.RecordDBQuery("fetch_user_config", time.Since(start))
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("FetchByID: %w", err)
	}

	var keywords []string
	if len(keywordsJSON) > 0 {
		if err := json.Unmarshal(keywordsJSON, &keywords); err != nil {
			return nil, fmt.Errorf("FetchByID: unmarshal keywords: %w", err)
		}
	}

	var sources []sourceRow
	if len(sourcesJSON) > 0 {
		if err := json.Unmarshal(sourcesJSON, &sources); err != nil {
			return nil, fmt.Errorf("FetchByID: unmarshal sources: %w", err)
		}
	}

	cfg.InterestProfile = entity.NewInterestProfile(keywords, threshold, boost, entity.SummaryStyle(summaryStyle))
	cfg.Sources = make([]entity.SourceRef, len(sources))
	for i, s := range sources {
		cfg.Sources[i] = entity.SourceRef{ID: s.ID, Name: s.Name, FeedURL: s.FeedURL}
	}

	return &cfg, nil
}
