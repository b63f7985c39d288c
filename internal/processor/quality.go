package processor

import (
	"context"

	"digest-pipeline/internal/aiprovider"
	"digest-pipeline/internal/domain/entity"
)

// qualityVerdict is the structured AI schema for content quality scoring.
type qualityVerdict struct {
	WritingQuality  int    `json:"writing_quality"`
	Informativeness int    `json:"informativeness"`
	Credibility     int    `json:"credibility"`
	Reasoning       string `json:"reasoning"`
}

const qualitySystemPrompt = `You score article content quality on three axes. Respond with JSON only: {"writing_quality": 0-20, "informativeness": 0-20, "credibility": 0-10, "reasoning": string}.`

// ScoreQuality produces a ContentQualityResult in [0,100]. When AI scoring
// is disabled or the AI call fails, the metadata score is linearly rescaled
// to fill the full 0-100 range instead of being capped at its 0-50 share.
func ScoreQuality(ctx context.Context, article entity.Article, cfg QualityConfig, provider aiprovider.Provider) entity.ContentQualityResult {
	breakdown := entity.QualityBreakdown{
		HasAuthor:      article.Author != "",
		HasPublishedAt: !article.PublishedAt.IsZero(),
		HasTags:        len(article.Tags) > 0,
	}

	contentLen := len([]rune(article.Content))
	breakdown.ContentOver500 = contentLen > 500
	breakdown.ContentOver1000 = contentLen > 1000

	metadataScore := 0.0
	if breakdown.HasAuthor {
		metadataScore += 10
	}
	if breakdown.HasPublishedAt {
		metadataScore += 10
	}
	if breakdown.HasTags {
		metadataScore += 5
	}
	if breakdown.ContentOver500 {
		metadataScore += 15
	}
	if breakdown.ContentOver1000 {
		metadataScore += 10
	}

	if !cfg.Enabled || provider == nil {
		return finishQuality(article.URL, metadataScore*2, 0, breakdown)
	}

	verdict, err := aiprovider.RunStructured[qualityVerdict](ctx, provider, qualitySystemPrompt, qualityUserPrompt(article))
	if err != nil {
		breakdown.AIReasoning = "degraded: ai error"
		return finishQuality(article.URL, metadataScore*2, 0, breakdown)
	}

	breakdown.WritingQuality = clampInt(verdict.WritingQuality, 0, 20)
	breakdown.Informativeness = clampInt(verdict.Informativeness, 0, 20)
	breakdown.Credibility = clampInt(verdict.Credibility, 0, 10)
	breakdown.AIReasoning = verdict.Reasoning

	aiScore := float64(breakdown.WritingQuality + breakdown.Informativeness + breakdown.Credibility)
	return finishQuality(article.URL, metadataScore, aiScore, breakdown)
}

func finishQuality(url string, metadataScore, aiScore float64, breakdown entity.QualityBreakdown) entity.ContentQualityResult {
	return entity.ContentQualityResult{
		URL:            url,
		QualityScore:   clampFloat(metadataScore+aiScore, 0, 100),
		MetadataScore:  metadataScore,
		AIContentScore: aiScore,
		Breakdown:      breakdown,
	}
}

func qualityUserPrompt(article entity.Article) string {
	content := article.Content
	if len(content) > 1500 {
		content = content[:1500]
	}
	return "Title: " + article.Title + "\nContent: " + content
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
