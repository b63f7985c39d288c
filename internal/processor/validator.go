package processor

import (
	"context"
	"strings"

	"digest-pipeline/internal/aiprovider"
	"digest-pipeline/internal/domain/entity"
)

// spamVerdict is the structured AI schema for spam classification.
type spamVerdict struct {
	IsSpam     bool    `json:"is_spam"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

const validatorSystemPrompt = `You classify whether article content is spam, low-effort link bait, or auto-generated filler. Respond with JSON only: {"is_spam": bool, "confidence": 0-1, "reasoning": string}.`

// Validate runs the validator's rules in order and returns a ValidationResult.
// AI spam detection degrades open: a provider error is treated as not-spam
// so the article is never rejected on an AI failure.
func Validate(ctx context.Context, article entity.Article, cfg ValidatorConfig, provider aiprovider.Provider) entity.ValidationResult {
	result := entity.ValidationResult{URL: article.URL}

	trimmed := strings.TrimSpace(article.Content)
	if trimmed == "" {
		result.IsEmpty = true
		result.Reason = "empty content"
		return result
	}

	if len(trimmed) < cfg.MinLength {
		result.IsTooShort = true
		result.Reason = "content shorter than minimum length"
		return result
	}

	if !cfg.SpamDetectionEnabled || provider == nil {
		result.Passed = true
		return result
	}

	verdict, err := aiprovider.RunStructured[spamVerdict](ctx, provider, validatorSystemPrompt, spamUserPrompt(article))
	if err != nil {
		result.Passed = true
		result.Reason = "spam check degraded: ai error"
		return result
	}

	result.Confidence = verdict.Confidence
	if verdict.IsSpam && verdict.Confidence >= cfg.SpamConfidenceReject {
		result.IsSpam = true
		result.Reason = verdict.Reasoning
		return result
	}

	result.Passed = true
	return result
}

func spamUserPrompt(article entity.Article) string {
	var b strings.Builder
	b.WriteString("Title: ")
	b.WriteString(article.Title)
	b.WriteString("\nContent: ")
	content := article.Content
	if len(content) > 2000 {
		content = content[:2000]
	}
	b.WriteString(content)
	return b.String()
}
