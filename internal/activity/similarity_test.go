package activity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"digest-pipeline/internal/domain/entity"
	"digest-pipeline/internal/processor"
)

func TestDetectSimilarArticlesBatch_GroupsLinkedArticles(t *testing.T) {
	a := entity.Article{URL: "https://a.example", Title: "story", Content: "content a"}
	b := entity.Article{URL: "https://b.example", Title: "story duplicate", Content: "content b"}
	c := entity.Article{URL: "https://c.example", Title: "unrelated", Content: "content c"}

	provider := &stubProvider{response: `{"sim_score": 0.9, "reasoning": "same story"}`}
	store := newMemStore()
	cfg := processor.DefaultSimilarityConfig()

	out := DetectSimilarArticlesBatch(context.Background(), []entity.Article{a, b, c}, map[string]float64{}, cfg, provider, store)
	assert.Equal(t, 3, out.AICalls, "3 pairs among 3 articles")

	var sizes []int
	for _, g := range out.Groups {
		sizes = append(sizes, len(g.Members))
	}
	assert.Contains(t, sizes, 3, "all three link at sim_score 0.9 >= 0.7 threshold")
}

func TestDetectSimilarArticlesBatch_NilProviderYieldsSingletons(t *testing.T) {
	a := entity.Article{URL: "https://a.example"}
	b := entity.Article{URL: "https://b.example"}
	out := DetectSimilarArticlesBatch(context.Background(), []entity.Article{a, b}, map[string]float64{}, processor.DefaultSimilarityConfig(), nil, newMemStore())
	assert.Len(t, out.Groups, 2)
	assert.Equal(t, 0, out.AICalls)
}

func TestDetectSimilarArticlesBatch_CachesPairLookup(t *testing.T) {
	a := entity.Article{URL: "https://a.example"}
	b := entity.Article{URL: "https://b.example"}
	provider := &stubProvider{response: `{"sim_score": 0.1, "reasoning": "different"}`}
	store := newMemStore()
	cfg := processor.DefaultSimilarityConfig()

	DetectSimilarArticlesBatch(context.Background(), []entity.Article{a, b}, map[string]float64{}, cfg, provider, store)
	out := DetectSimilarArticlesBatch(context.Background(), []entity.Article{a, b}, map[string]float64{}, cfg, provider, store)
	assert.Equal(t, 1, out.CacheHits)
	assert.Equal(t, 0, out.AICalls)
}
