// Package repository declares the pipeline's persistence interfaces. The
// only read the workflow performs against durable storage is the one-shot
// user configuration load at the start of a run (spec §4.8 step 1).
package repository

import (
	"context"

	"digest-pipeline/internal/domain/entity"
)

// UserConfigRepository loads the per-user input to a workflow run.
// FetchByID returns entity.ErrNotFound when userID has no configuration —
// the orchestrator treats that as a fatal, workflow-terminating error.
type UserConfigRepository interface {
	FetchByID(ctx context.Context, userID string) (*entity.UserConfig, error)
}
