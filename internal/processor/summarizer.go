package processor

import (
	"context"
	"strings"

	"digest-pipeline/internal/aiprovider"
	"digest-pipeline/internal/domain/entity"
)

const shortContentThreshold = 100

type summaryVerdict struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	Reasoning string   `json:"reasoning"`
}

var summarizerSystemPrompts = map[entity.SummaryStyle]string{
	entity.SummaryStyleBrief: `Summarize the article in 1-2 paragraphs. ` +
		`Respond with JSON only: {"summary": string, "key_points": [string, ...3-5], "reasoning": string}.`,
	entity.SummaryStyleDetailed: `Summarize the article in 3-4 paragraphs, covering context and implications. ` +
		`Respond with JSON only: {"summary": string, "key_points": [string, ...3-5], "reasoning": string}.`,
	entity.SummaryStyleBulletPoints: `Summarize the article as a concise bullet list. ` +
		`Respond with JSON only: {"summary": string, "key_points": [string, ...3-5], "reasoning": string}.`,
}

// Summarize produces a SummaryResult for article in the given style. Very
// short content is excerpted instead of sent to the AI; an AI error falls
// back to a longer excerpt.
func Summarize(ctx context.Context, article entity.Article, style entity.SummaryStyle, cfg SummarizerConfig, provider aiprovider.Provider) entity.SummaryResult {
	content := strings.TrimSpace(article.Content)

	if len([]rune(content)) < shortContentThreshold {
		return entity.SummaryResult{URL: article.URL, Summary: excerpt(content, 150)}
	}

	if provider == nil {
		return entity.SummaryResult{URL: article.URL, Summary: excerpt(content, 300) + "..."}
	}

	systemPrompt, ok := summarizerSystemPrompts[style]
	if !ok {
		systemPrompt = summarizerSystemPrompts[entity.SummaryStyleBrief]
	}

	verdict, err := aiprovider.RunStructured[summaryVerdict](ctx, provider, systemPrompt, summarizerUserPrompt(article, cfg))
	if err != nil {
		return entity.SummaryResult{URL: article.URL, Summary: excerpt(content, 300) + "..."}
	}

	return entity.SummaryResult{
		URL:       article.URL,
		Summary:   enforceWordLimit(verdict.Summary, cfg.MaxLengthWords),
		KeyPoints: verdict.KeyPoints,
		Reasoning: verdict.Reasoning,
	}
}

func summarizerUserPrompt(article entity.Article, cfg SummarizerConfig) string {
	content := article.Content
	if len([]rune(content)) > cfg.ContentLength {
		content = string([]rune(content)[:cfg.ContentLength])
	}

	var b strings.Builder
	b.WriteString("Title: ")
	b.WriteString(article.Title)
	if len(article.Tags) > 0 {
		b.WriteString("\nTags: ")
		b.WriteString(strings.Join(article.Tags, ", "))
	}
	if len(article.AITopics) > 0 {
		b.WriteString("\nTopics: ")
		b.WriteString(strings.Join(article.AITopics, ", "))
	}
	b.WriteString("\nContent: ")
	b.WriteString(content)
	return b.String()
}

func excerpt(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return string(runes)
	}
	return string(runes[:maxRunes])
}

func enforceWordLimit(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ")
}
