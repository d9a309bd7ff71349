package database

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

const schema = `
	CREATE TABLE IF NOT EXISTS suite_runs (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		base_url VARCHAR(2048) NOT NULL,
		browser VARCHAR(50) NOT NULL,
		status VARCHAR(50) NOT NULL,
		total INTEGER NOT NULL DEFAULT 0,
		passed INTEGER NOT NULL DEFAULT 0,
		assertion_failures INTEGER NOT NULL DEFAULT 0,
		timeouts INTEGER NOT NULL DEFAULT 0,
		errors INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		finished_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_suite_runs_started_at ON suite_runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_suite_runs_status ON suite_runs(status);

	CREATE TABLE IF NOT EXISTS scenario_results (
		run_id UUID NOT NULL REFERENCES suite_runs(id) ON DELETE CASCADE,
		scenario_id VARCHAR(50) NOT NULL,
		suite VARCHAR(50) NOT NULL,
		name VARCHAR(255) NOT NULL,
		outcome VARCHAR(50) NOT NULL,
		expected_rejection BOOLEAN NOT NULL DEFAULT FALSE,
		message TEXT,
		started_at TIMESTAMP NOT NULL,
		duration_ms BIGINT NOT NULL,
		PRIMARY KEY (run_id, scenario_id)
	);

	CREATE INDEX IF NOT EXISTS idx_scenario_results_scenario ON scenario_results(scenario_id);
	`

// Migrate creates the run history tables on db
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create run history tables: %w", err)
	}
	return nil
}

// RunMigrations creates the necessary database tables
func RunMigrations(logger *zap.Logger) error {
	if DB == nil {
		return fmt.Errorf("database connection not initialized")
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	logger.Info("database migrations completed")
	return nil
}
