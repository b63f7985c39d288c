package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput indicates that the provided input is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidationFailed indicates that validation checks have failed.
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Kind classifies an error for the pipeline's retry and propagation policy.
type Kind int

const (
	// KindTransientExternal covers network timeouts, 5xx responses, and AI
	// provider rate-limit/timeout errors. Retryable.
	KindTransientExternal Kind = iota
	// KindMalformedInput covers unparseable feeds, invalid URLs, and AI
	// output that fails schema validation. Non-retryable; record and
	// continue.
	KindMalformedInput
	// KindRejected marks content that failed validation (empty, too
	// short, spam). An expected outcome, not an error condition.
	KindRejected
	// KindFatal covers unrecoverable failures that terminate the
	// workflow: user not found, unrecoverable cache corruption on a
	// critical read.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindTransientExternal:
		return "transient_external"
	case KindMalformedInput:
		return "malformed_input"
	case KindRejected:
		return "rejected"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// PipelineError is the common typed error carried through activities and the
// orchestrator. Stage identifies which component raised it; Retryable mirrors
// Kind but is stored explicitly since callers branch on it directly.
type PipelineError struct {
	Kind      Kind
	Stage     string
	Retryable bool
	Err       error
}

func NewPipelineError(kind Kind, stage string, err error) *PipelineError {
	return &PipelineError{
		Kind:      kind,
		Stage:     stage,
		Retryable: kind == KindTransientExternal,
		Err:       err,
	}
}

func (e *PipelineError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s[%s]: %v", e.Kind, e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// IsRetryable reports whether err (or a wrapped PipelineError within it)
// should be retried under the pipeline's error propagation policy.
func IsRetryable(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// IsFatal reports whether err should terminate the workflow.
func IsFatal(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind == KindFatal
	}
	return false
}
