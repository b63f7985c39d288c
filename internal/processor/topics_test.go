package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"digest-pipeline/internal/domain/entity"
)

func TestExtractTopics_ShortContentSkipsAI(t *testing.T) {
	p := &stubProvider{response: `{"topics": ["go", "backend"]}`}
	a := entity.Article{URL: "u", Content: "too short"}
	topics := ExtractTopics(context.Background(), a, DefaultTopicsConfig(), p)
	assert.Equal(t, []string{}, topics)
}

func TestExtractTopics_AIErrorReturnsEmpty(t *testing.T) {
	p := &stubProvider{err: errors.New("down")}
	a := entity.Article{URL: "u", Content: longEnoughContent()}
	topics := ExtractTopics(context.Background(), a, DefaultTopicsConfig(), p)
	assert.Equal(t, []string{}, topics)
}

func TestExtractTopics_CapsAtMaxTopics(t *testing.T) {
	p := &stubProvider{response: `{"topics": ["a", "b", "c", "d", "e", "f"]}`}
	a := entity.Article{URL: "u", Content: longEnoughContent()}
	cfg := TopicsConfig{MaxTopics: 3}
	topics := ExtractTopics(context.Background(), a, cfg, p)
	assert.Equal(t, []string{"a", "b", "c"}, topics)
}

func TestExtractTopics_NilProviderReturnsEmpty(t *testing.T) {
	a := entity.Article{URL: "u", Content: longEnoughContent()}
	topics := ExtractTopics(context.Background(), a, DefaultTopicsConfig(), nil)
	assert.Equal(t, []string{}, topics)
}
