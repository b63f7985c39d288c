package db

import (
	"database/sql"
	_ "embed"
)

//go:embed seeds/user_configs.sql
var seedUserConfigsSQL string

// MigrateUp creates the pipeline's input schema: one row per user carrying
// their interest profile and subscribed sources. The workflow orchestrator's
// only durable-storage access is a read against this table
// (UserConfigRepository.FetchByID); nothing in this module writes to it at
// runtime, so there is no corresponding write path to migrate for.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS user_configs (
    user_id             TEXT PRIMARY KEY,
    email               TEXT NOT NULL,
    timezone            TEXT NOT NULL DEFAULT 'UTC',
    keywords            JSONB NOT NULL DEFAULT '[]',
    relevance_threshold INT NOT NULL DEFAULT 40,
    boost_factor        DOUBLE PRECISION NOT NULL DEFAULT 1.0,
    summary_style       TEXT NOT NULL DEFAULT 'brief',
    sources             JSONB NOT NULL DEFAULT '[]',
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	indexes := []string{
		// Index on updated_at; no query in this module reads by it.
		`CREATE INDEX IF NOT EXISTS idx_user_configs_updated_at ON user_configs(updated_at)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// Seed data; the seed file inserts with ON CONFLICT (user_id) DO NOTHING
	// so reruns are idempotent.
	if _, err := db.Exec(seedUserConfigsSQL); err != nil {
		return err
	}

	return nil
}

// MigrateDown drops the schema. Destructive; local/test use only.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_user_configs_updated_at`,
		`DROP TABLE IF EXISTS user_configs CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
