package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"digest-pipeline/internal/domain/entity"
)

type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) RunRaw(_ context.Context, _, _ string) (string, error) {
	return s.response, s.err
}

func TestValidate_EmptyContentRejected(t *testing.T) {
	a := entity.Article{URL: "u", Content: "   "}
	result := Validate(context.Background(), a, DefaultValidatorConfig(), nil)
	assert.True(t, result.IsEmpty)
	assert.False(t, result.Passed)
}

func TestValidate_TooShortRejected(t *testing.T) {
	cfg := DefaultValidatorConfig()
	a := entity.Article{URL: "u", Content: "short"}
	result := Validate(context.Background(), a, cfg, nil)
	assert.True(t, result.IsTooShort)
	assert.False(t, result.Passed)
}

func TestValidate_SpamDetectionDisabledPasses(t *testing.T) {
	cfg := DefaultValidatorConfig()
	cfg.SpamDetectionEnabled = false
	a := entity.Article{URL: "u", Content: longEnoughContent()}
	result := Validate(context.Background(), a, cfg, nil)
	assert.True(t, result.Passed)
}

func TestValidate_SpamRejectedAboveConfidenceThreshold(t *testing.T) {
	p := &stubProvider{response: `{"is_spam": true, "confidence": 0.9, "reasoning": "looks like spam"}`}
	a := entity.Article{URL: "u", Content: longEnoughContent()}
	result := Validate(context.Background(), a, DefaultValidatorConfig(), p)
	assert.True(t, result.IsSpam)
	assert.False(t, result.Passed)
}

func TestValidate_SpamBelowConfidenceThresholdPasses(t *testing.T) {
	p := &stubProvider{response: `{"is_spam": true, "confidence": 0.3, "reasoning": "borderline"}`}
	a := entity.Article{URL: "u", Content: longEnoughContent()}
	result := Validate(context.Background(), a, DefaultValidatorConfig(), p)
	assert.True(t, result.Passed)
}

func TestValidate_AIErrorDegradesOpen(t *testing.T) {
	p := &stubProvider{err: errors.New("provider down")}
	a := entity.Article{URL: "u", Content: longEnoughContent()}
	result := Validate(context.Background(), a, DefaultValidatorConfig(), p)
	assert.True(t, result.Passed)
	assert.False(t, result.IsSpam)
}

func longEnoughContent() string {
	return "This is sufficiently long article content that clears the minimum length threshold for validation purposes."
}
