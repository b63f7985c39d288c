package activity

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"digest-pipeline/internal/domain/entity"
	"digest-pipeline/internal/processor"
)

func TestSummarizeArticlesBatch_AnnotatesSummaryAndCachesPerStyle(t *testing.T) {
	a := entity.Article{URL: "https://a.example", Title: "t", Content: strings.Repeat("word ", 200)}
	provider := &stubProvider{response: `{"summary": "a crisp summary", "key_points": ["a"], "reasoning": "ok"}`}
	store := newMemStore()
	cfg := processor.DefaultSummarizerConfig()

	out1 := SummarizeArticlesBatch(context.Background(), []entity.Article{a}, entity.SummaryStyleBrief, cfg, provider, store)
	assert.Equal(t, "a crisp summary", out1.Articles[0].Summary)
	assert.Equal(t, 1, out1.AICalls)

	out2 := SummarizeArticlesBatch(context.Background(), []entity.Article{a}, entity.SummaryStyleDetailed, cfg, provider, store)
	assert.Equal(t, 1, out2.AICalls, "different style is a cache miss")

	out3 := SummarizeArticlesBatch(context.Background(), []entity.Article{a}, entity.SummaryStyleBrief, cfg, provider, store)
	assert.Equal(t, 1, out3.CacheHits)
}
