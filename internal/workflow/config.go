package workflow

import (
	"digest-pipeline/internal/feed"
	"digest-pipeline/internal/processor"
)

// Config bundles every per-stage configuration the orchestrator threads
// through its activities, per spec §6's enumerated configuration surface.
type Config struct {
	Fetch      feed.FetchConfig
	Validator  processor.ValidatorConfig
	Normalizer processor.NormalizerConfig
	Quality    processor.QualityConfig
	Topics     processor.TopicsConfig
	Relevance  processor.RelevanceConfig
	Summarizer processor.SummarizerConfig
	Similarity processor.SimilarityConfig

	// MaxAICallsPerRun caps the number of AI provider calls one Run may
	// make across every activity combined, per spec §5's "bounded AI-call
	// budget". Zero disables the cap.
	MaxAICallsPerRun int
}

// DefaultConfig collects every stage's documented defaults.
func DefaultConfig() Config {
	return Config{
		Fetch:            feed.DefaultFetchConfig(),
		Validator:        processor.DefaultValidatorConfig(),
		Normalizer:       processor.DefaultNormalizerConfig(),
		Quality:          processor.DefaultQualityConfig(),
		Topics:           processor.DefaultTopicsConfig(),
		Relevance:        processor.DefaultRelevanceConfig(),
		Summarizer:       processor.DefaultSummarizerConfig(),
		Similarity:       processor.DefaultSimilarityConfig(),
		MaxAICallsPerRun: 500,
	}
}
