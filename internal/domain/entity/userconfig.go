package entity

import "time"

// SourceRef is one feed entry in a UserConfig's source list.
type SourceRef struct {
	ID      string
	Name    string
	FeedURL string
}

// UserConfig is the one-shot input read at the start of a workflow run
// (see UserConfigRepository). It is never mutated once loaded.
type UserConfig struct {
	UserID          string
	Email           string
	Timezone        string
	InterestProfile InterestProfile
	Sources         []SourceRef

	// RunID and Now are stamped by the caller, never generated inside the
	// workflow: the orchestrator must not read wall-clock time or
	// randomness directly so that replay with identical inputs is
	// byte-identical.
	RunID string
	Now   time.Time
}
