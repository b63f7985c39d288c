package entity

// ValidationResult is the validator processor's output for one article.
type ValidationResult struct {
	URL        string
	IsEmpty    bool
	IsTooShort bool
	IsSpam     bool
	Confidence float64
	Reason     string
	Passed     bool
}

// QualityBreakdown is the itemized contribution to ContentQualityResult.
type QualityBreakdown struct {
	HasAuthor       bool
	HasPublishedAt  bool
	HasTags         bool
	ContentOver500  bool
	ContentOver1000 bool
	WritingQuality  int
	Informativeness int
	Credibility     int
	AIReasoning     string
}

// ContentQualityResult is the quality scorer's output for one article.
type ContentQualityResult struct {
	URL            string
	QualityScore   float64
	MetadataScore  float64
	AIContentScore float64
	Breakdown      QualityBreakdown
}

// RelevanceBreakdown is the itemized contribution to RelevanceResult.
type RelevanceBreakdown struct {
	KeywordScore      float64
	SemanticScore     float64
	TemporalBoost     float64
	QualityBoost      float64
	MatchedKeywords   []string
	SemanticReasoning string
}

// RelevanceResult is the relevance scorer's output for one article.
type RelevanceResult struct {
	URL             string
	RelevanceScore  float64
	Breakdown       RelevanceBreakdown
	PassesThreshold bool
}

// SummaryResult is the summarizer's output for one article.
type SummaryResult struct {
	URL       string
	Summary   string
	KeyPoints []string
	Reasoning string
}

// ArticleGroup is a connected component of the similarity graph, rendered as
// one block in the digest.
type ArticleGroup struct {
	Members          []Article
	AggregatedTopics []string
	Primary          Article
}
