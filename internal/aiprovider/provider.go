// Package aiprovider implements the pipeline's uniform AI provider
// abstraction: a structured-output call over pluggable model backends
// (Claude, OpenAI), wrapped in the shared circuit breaker and retry stack.
package aiprovider

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Provider is the interface every processor calls through. RunRaw sends a
// system/user prompt pair and returns the raw text response; it enforces a
// per-call timeout and at least one retry on transient errors, as required
// by the AI provider abstraction's contract. Callers that need a structured
// result use the package-level RunStructured helper on top of it.
type Provider interface {
	RunRaw(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Name() string
}

// RunStructured prompts provider p for a JSON object matching T's shape and
// decodes it. A decode failure is reported as a MalformedInput-class
// AIError: non-retryable, the caller degrades per its own documented
// fallback.
func RunStructured[T any](ctx context.Context, p Provider, systemPrompt, userPrompt string) (T, error) {
	var zero T

	raw, err := p.RunRaw(ctx, systemPrompt, userPrompt)
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal([]byte(extractJSON(raw)), &out); err != nil {
		return zero, &AIError{
			Provider:  p.Name(),
			Retryable: false,
			Err:       err,
		}
	}
	return out, nil
}

// extractJSON trims a model response down to its outermost JSON object,
// tolerating a markdown code fence or leading/trailing prose around it —
// the same defensive trim every structured-output caller in the pack ends
// up needing once a model starts wrapping JSON in commentary.
func extractJSON(raw string) string {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < 0 || end < start {
		return raw
	}
	return raw[start : end+1]
}

// CallTimeout is the per-call timeout every Provider implementation enforces
// around its underlying SDK call.
const CallTimeout = 60 * time.Second
