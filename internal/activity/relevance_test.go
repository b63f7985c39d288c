package activity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"digest-pipeline/internal/domain/entity"
	"digest-pipeline/internal/processor"
)

func TestScoreRelevanceBatch_AnnotatesRelevanceScore(t *testing.T) {
	profile := entity.NewInterestProfile([]string{"golang"}, 5, 1.0, entity.SummaryStyleBrief)
	a := entity.Article{URL: "https://a.example", Title: "golang golang golang"}
	store := newMemStore()

	out := ScoreRelevanceBatch(context.Background(), []entity.Article{a}, profile, processor.DefaultRelevanceConfig(), nil, store, fixedNowActivity())
	score, ok := out.Articles[0].MetaFloat64("relevance_score")
	assert.True(t, ok)
	assert.Greater(t, score, 0.0)
	assert.Equal(t, out.Results["https://a.example"].RelevanceScore, score)
}

func TestScoreRelevanceBatch_ProfileChangeInvalidatesCache(t *testing.T) {
	a := entity.Article{URL: "https://a.example", Title: "golang golang golang"}
	store := newMemStore()
	profileA := entity.NewInterestProfile([]string{"golang"}, 5, 1.0, entity.SummaryStyleBrief)
	profileB := entity.NewInterestProfile([]string{"rust"}, 5, 1.0, entity.SummaryStyleBrief)

	ScoreRelevanceBatch(context.Background(), []entity.Article{a}, profileA, processor.DefaultRelevanceConfig(), nil, store, fixedNowActivity())
	out := ScoreRelevanceBatch(context.Background(), []entity.Article{a}, profileB, processor.DefaultRelevanceConfig(), nil, store, fixedNowActivity())
	assert.Equal(t, 0, out.CacheHits)
}
