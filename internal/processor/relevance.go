package processor

import (
	"context"
	"strings"
	"time"
	"unicode"

	"digest-pipeline/internal/aiprovider"
	"digest-pipeline/internal/domain/entity"
)

const (
	keywordScoreMax    = 60.0
	semanticScoreMax   = 30.0
	temporalBoostMax   = 5.0
	qualityBoostMax    = 5.0
	shortCircuitHigh   = 55.0
	shortCircuitLow    = 15.0
	freshWindow        = 24 * time.Hour
	qualityBoostFloor  = 80.0
	relevanceSnippetLn = 2000
)

type semanticVerdict struct {
	SemanticScore    float64  `json:"semantic_score"`
	MatchedInterests []string `json:"matched_interests"`
	Reasoning        string   `json:"reasoning"`
}

const relevanceSystemPrompt = `You judge how semantically relevant an article is to a reader's stated interests. Respond with JSON only: {"semantic_score": 0-30, "matched_interests": [string, ...top 5], "reasoning": string}.`

// ScoreRelevance runs the three-stage relevance scorer for one article
// against one InterestProfile. now is supplied by the caller so the
// processor never reads the wall clock directly.
func ScoreRelevance(ctx context.Context, article entity.Article, profile entity.InterestProfile, cfg RelevanceConfig, provider aiprovider.Provider, now time.Time) entity.RelevanceResult {
	if len(profile.Keywords) == 0 {
		return entity.RelevanceResult{URL: article.URL, RelevanceScore: 0, PassesThreshold: true}
	}

	keywordScore, matched := scoreKeywords(article, profile.Keywords, cfg)

	semanticScore := 0.0
	semanticReasoning := ""
	skipSemantic := keywordScore >= shortCircuitHigh ||
		(keywordScore <= shortCircuitLow && profile.BoostFactor <= 1.0)

	if !skipSemantic {
		semanticScore, semanticReasoning = scoreSemantic(ctx, article, profile, provider)
	} else {
		semanticReasoning = "short_circuited"
	}

	temporalBoost := temporalBoostFor(article, now)
	qualityBoost := 0.0
	if qualityScore, ok := article.MetaFloat64("quality_score"); ok && qualityScore >= qualityBoostFloor && len(matched) > 0 {
		qualityBoost = qualityBoostMax
	}

	sum := clampFloat(keywordScore+semanticScore+temporalBoost+qualityBoost, 0, 100)
	final := clampFloat(sum*clampFloat(profile.BoostFactor, 0.5, 2.0), 0, 100)

	return entity.RelevanceResult{
		URL:            article.URL,
		RelevanceScore: final,
		Breakdown: entity.RelevanceBreakdown{
			KeywordScore:      keywordScore,
			SemanticScore:     semanticScore,
			TemporalBoost:     temporalBoost,
			QualityBoost:      qualityBoost,
			MatchedKeywords:   matched,
			SemanticReasoning: semanticReasoning,
		},
		PassesThreshold: final >= float64(profile.RelevanceThreshold),
	}
}

// scoreKeywords implements Stage 1: unique keyword hits in title, content,
// and tags∪topics, clamped to keywordScoreMax.
func scoreKeywords(article entity.Article, keywords []string, cfg RelevanceConfig) (float64, []string) {
	titleWords := normalizedWordSet(article.Title)
	snippet := article.Content
	if len(snippet) > relevanceSnippetLn {
		snippet = snippet[:relevanceSnippetLn]
	}
	contentWords := normalizedWordSet(snippet)

	tagsTopics := make(map[string]struct{}, len(article.Tags)+len(article.AITopics))
	for _, t := range article.Tags {
		tagsTopics[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	for _, t := range article.AITopics {
		tagsTopics[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	score := 0.0
	matched := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		hit := false
		if _, ok := titleWords[kw]; ok {
			score += cfg.KeywordWeightTitle
			hit = true
		}
		if _, ok := contentWords[kw]; ok {
			score += cfg.KeywordWeightContent
			hit = true
		}
		if _, ok := tagsTopics[kw]; ok {
			score += cfg.KeywordWeightTags
			hit = true
		}
		if hit {
			matched = append(matched, kw)
		}
	}

	return clampFloat(score, 0, keywordScoreMax), matched
}

// normalizedWordSet lowercases and strips leading/trailing punctuation from
// each whitespace-delimited word, returning the set of resulting tokens.
func normalizedWordSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		trimmed := strings.TrimFunc(f, unicode.IsPunct)
		if trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}

// scoreSemantic implements Stage 2: a single AI call producing the semantic
// lift and the interests it matched. An AI error degrades to a 0 score.
func scoreSemantic(ctx context.Context, article entity.Article, profile entity.InterestProfile, provider aiprovider.Provider) (float64, string) {
	if provider == nil {
		return 0, "ai_error"
	}

	prompt := semanticUserPrompt(article, profile)
	verdict, err := aiprovider.RunStructured[semanticVerdict](ctx, provider, relevanceSystemPrompt, prompt)
	if err != nil {
		return 0, "ai_error"
	}

	return clampFloat(verdict.SemanticScore, 0, semanticScoreMax), verdict.Reasoning
}

func semanticUserPrompt(article entity.Article, profile entity.InterestProfile) string {
	content := article.Content
	if len(content) > 800 {
		content = content[:800]
	}

	var b strings.Builder
	b.WriteString("Interests: ")
	b.WriteString(strings.Join(profile.SortedKeywords(), ", "))
	b.WriteString("\nTitle: ")
	b.WriteString(article.Title)
	b.WriteString("\nContent: ")
	b.WriteString(content)
	if article.Summary != "" {
		b.WriteString("\nExisting summary: ")
		b.WriteString(article.Summary)
	}
	if len(article.AITopics) > 0 {
		b.WriteString("\nTopics: ")
		b.WriteString(strings.Join(article.AITopics, ", "))
	}
	return b.String()
}

// temporalBoostFor implements the freshness portion of Stage 3: up to
// temporalBoostMax, scaled linearly down to 0 as age approaches freshWindow.
func temporalBoostFor(article entity.Article, now time.Time) float64 {
	if article.PublishedAt.IsZero() {
		return 0
	}
	age := now.Sub(article.PublishedAt)
	if age < 0 {
		age = 0
	}
	if age >= freshWindow {
		return 0
	}
	return temporalBoostMax * (1 - float64(age)/float64(freshWindow))
}
