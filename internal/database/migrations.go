package database

import (
	"database/sql"
	"fmt"
)

// Schema creates the run history tables
const Schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id UUID PRIMARY KEY,
		suite VARCHAR(255) NOT NULL,
		browser VARCHAR(50) NOT NULL DEFAULT '',
		os VARCHAR(50) NOT NULL DEFAULT '',
		groups TEXT NOT NULL DEFAULT '',
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP,
		passed INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

	CREATE TABLE IF NOT EXISTS results (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		class VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		groups TEXT NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL,
		message TEXT,
		screenshot TEXT,
		started_at TIMESTAMP NOT NULL,
		duration_ms BIGINT NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id);
	CREATE INDEX IF NOT EXISTS idx_results_status ON results(status);
	`

// RunMigrations creates the necessary database tables
func RunMigrations() error {
	if DB == nil {
		return fmt.Errorf("database connection not initialized")
	}
	return Migrate(DB)
}

// Migrate applies Schema to db
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create history tables: %w", err)
	}
	return nil
}
