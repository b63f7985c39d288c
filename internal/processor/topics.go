package processor

import (
	"context"
	"strings"

	"digest-pipeline/internal/aiprovider"
	"digest-pipeline/internal/domain/entity"
)

// minTopicsContentChars is the minimum meaningful content length before an
// AI call is worth making; shorter articles get an empty topic list with no
// AI call.
const minTopicsContentChars = 50

type topicsVerdict struct {
	Topics []string `json:"topics"`
}

const topicsSystemPrompt = `Extract the main topics discussed in this article, each 1-3 words. Respond with JSON only: {"topics": [string, ...]}.`

// ExtractTopics returns the ai_topics annotation for article. A provider
// error, or insufficient content, yields an empty (non-nil) topic list
// rather than failing — the pipeline continues either way.
func ExtractTopics(ctx context.Context, article entity.Article, cfg TopicsConfig, provider aiprovider.Provider) []string {
	if len([]rune(strings.TrimSpace(article.Content))) < minTopicsContentChars {
		return []string{}
	}
	if provider == nil {
		return []string{}
	}

	verdict, err := aiprovider.RunStructured[topicsVerdict](ctx, provider, topicsSystemPrompt, topicsUserPrompt(article))
	if err != nil {
		return []string{}
	}

	topics := verdict.Topics
	if len(topics) > cfg.MaxTopics {
		topics = topics[:cfg.MaxTopics]
	}
	return topics
}

func topicsUserPrompt(article entity.Article) string {
	content := article.Content
	if len(content) > 1500 {
		content = content[:1500]
	}
	return "Title: " + article.Title + "\nContent: " + content
}
