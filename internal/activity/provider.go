package activity

import (
	"context"

	"digest-pipeline/internal/aiprovider"
)

// countingProvider wraps a Provider to tally how many RunRaw calls actually
// reached the backend, so each activity's BatchResult.AICalls reflects calls
// made, not calls attempted — a cache hit for one article never increments
// the counter since compute() is skipped entirely.
type countingProvider struct {
	inner aiprovider.Provider
	calls int
}

func newCountingProvider(inner aiprovider.Provider) *countingProvider {
	return &countingProvider{inner: inner}
}

func (c *countingProvider) RunRaw(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.calls++
	return c.inner.RunRaw(ctx, systemPrompt, userPrompt)
}

func (c *countingProvider) Name() string {
	if c.inner == nil {
		return "none"
	}
	return c.inner.Name()
}

// asProvider returns c as an aiprovider.Provider, or nil if it wraps a nil
// inner provider — processors treat a nil Provider as "AI disabled".
func (c *countingProvider) asProvider() aiprovider.Provider {
	if c == nil || c.inner == nil {
		return nil
	}
	return c
}
