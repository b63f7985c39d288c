package aiprovider

import "fmt"

// AIError is the single error kind the AI provider abstraction propagates,
// per the spec's error taxonomy: Retryable mirrors whether the underlying
// failure is transient (network/timeout/rate-limit) or not (schema
// validation failure on the model's output).
type AIError struct {
	Provider  string
	Retryable bool
	Err       error
}

func (e *AIError) Error() string {
	return fmt.Sprintf("ai provider %q error (retryable=%v): %v", e.Provider, e.Retryable, e.Err)
}

func (e *AIError) Unwrap() error { return e.Err }
