package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/themizzi/shopcheck/internal/database"
	"github.com/themizzi/shopcheck/internal/models"
)

// ErrRunNotFound is returned when a run id matches no stored run
var ErrRunNotFound = errors.New("run not found")

// RunRepository handles database operations for suite runs and their results
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository() *RunRepository {
	return &RunRepository{
		db: database.DB,
	}
}

// NewRunRepositoryWithDB creates a new run repository with a specific database connection
func NewRunRepositoryWithDB(db *sql.DB) *RunRepository {
	return &RunRepository{
		db: db,
	}
}

// CreateRun stores a new run
func (r *RunRepository) CreateRun(ctx context.Context, run *models.Run) error {
	query := `
		INSERT INTO suite_runs (id, name, base_url, browser, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.Name,
		run.BaseURL,
		run.Browser,
		run.Status,
		run.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun stores the final status and counts of a run
func (r *RunRepository) FinishRun(ctx context.Context, run *models.Run) error {
	query := `
		UPDATE suite_runs
		SET status = $1, total = $2, passed = $3, assertion_failures = $4,
		    timeouts = $5, errors = $6, skipped = $7, finished_at = $8
		WHERE id = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		run.Status,
		run.Counts.Total,
		run.Counts.Passed,
		run.Counts.Assertion,
		run.Counts.Timeout,
		run.Counts.Error,
		run.Counts.Skipped,
		run.FinishedAt.UTC(),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRunNotFound
	}
	return nil
}

// GetRun retrieves a run by id
func (r *RunRepository) GetRun(ctx context.Context, id string) (*models.Run, error) {
	query := `
		SELECT id, name, base_url, browser, status, total, passed, assertion_failures,
		       timeouts, errors, skipped, started_at, finished_at
		FROM suite_runs
		WHERE id = $1
	`

	run := &models.Run{}
	var finishedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.Name,
		&run.BaseURL,
		&run.Browser,
		&run.Status,
		&run.Counts.Total,
		&run.Counts.Passed,
		&run.Counts.Assertion,
		&run.Counts.Timeout,
		&run.Counts.Error,
		&run.Counts.Skipped,
		&run.StartedAt,
		&finishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	return run, nil
}

// RecordResult stores one scenario's outcome within a run
func (r *RunRepository) RecordResult(ctx context.Context, res *models.ScenarioResult) error {
	query := `
		INSERT INTO scenario_results
			(run_id, scenario_id, suite, name, outcome, expected_rejection, message, started_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		res.RunID,
		res.ScenarioID,
		res.Suite,
		res.Name,
		res.Outcome,
		res.ExpectedRejection,
		res.Message,
		res.StartedAt.UTC(),
		res.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record result for %s: %w", res.ScenarioID, err)
	}
	return nil
}

// RecentResults returns up to limit results for a scenario, newest first
func (r *RunRepository) RecentResults(ctx context.Context, scenarioID string, limit int) ([]models.ScenarioResult, error) {
	query := `
		SELECT run_id, scenario_id, suite, name, outcome, expected_rejection,
		       COALESCE(message, ''), started_at, duration_ms
		FROM scenario_results
		WHERE scenario_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, scenarioID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []models.ScenarioResult
	for rows.Next() {
		var res models.ScenarioResult
		var durationMs int64
		if err := rows.Scan(
			&res.RunID,
			&res.ScenarioID,
			&res.Suite,
			&res.Name,
			&res.Outcome,
			&res.ExpectedRejection,
			&res.Message,
			&res.StartedAt,
			&durationMs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		res.Duration = time.Duration(durationMs) * time.Millisecond
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return results, nil
}

// FlakinessReport aggregates per-scenario outcomes over the last runs
// finished runs. Scenarios with the most non-passing outcomes come first.
func (r *RunRepository) FlakinessReport(ctx context.Context, runs int) ([]models.Flakiness, error) {
	query := `
		WITH recent AS (
			SELECT id FROM suite_runs
			WHERE status <> 'running'
			ORDER BY started_at DESC
			LIMIT $1
		),
		scoped AS (
			SELECT sr.*,
			       ROW_NUMBER() OVER (PARTITION BY sr.scenario_id ORDER BY sr.started_at DESC) AS recency
			FROM scenario_results sr
			WHERE sr.run_id IN (SELECT id FROM recent)
		)
		SELECT scenario_id,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE outcome = 'passed'),
		       COUNT(*) FILTER (WHERE outcome = 'assertion'),
		       COUNT(*) FILTER (WHERE outcome = 'timeout'),
		       COUNT(*) FILTER (WHERE outcome = 'error'),
		       COUNT(*) FILTER (WHERE outcome = 'skipped'),
		       MAX(outcome) FILTER (WHERE recency = 1)
		FROM scoped
		GROUP BY scenario_id
		ORDER BY COUNT(*) FILTER (WHERE outcome IN ('assertion', 'timeout', 'error')) DESC, scenario_id
	`

	rows, err := r.db.QueryContext(ctx, query, runs)
	if err != nil {
		return nil, fmt.Errorf("failed to query flakiness: %w", err)
	}
	defer rows.Close()

	var report []models.Flakiness
	for rows.Next() {
		var f models.Flakiness
		if err := rows.Scan(
			&f.ScenarioID,
			&f.Runs,
			&f.Passed,
			&f.Assertion,
			&f.Timeout,
			&f.Error,
			&f.Skipped,
			&f.LastOutcome,
		); err != nil {
			return nil, fmt.Errorf("failed to scan flakiness: %w", err)
		}
		report = append(report, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read flakiness: %w", err)
	}
	return report, nil
}
