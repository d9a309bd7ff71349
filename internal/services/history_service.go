package services

import (
	"context"
	"fmt"

	"github.com/themizzi/shopcheck/internal/models"
	"github.com/themizzi/shopcheck/internal/report"
)

// RunRepository defines the interface for run history persistence
type RunRepository interface {
	CreateRun(ctx context.Context, run *models.Run) error
	FinishRun(ctx context.Context, run *models.Run) error
	RecordResult(ctx context.Context, res *models.ScenarioResult) error
	RecentResults(ctx context.Context, scenarioID string, limit int) ([]models.ScenarioResult, error)
	FlakinessReport(ctx context.Context, runs int) ([]models.Flakiness, error)
}

// HistoryService records suite runs and reads flakiness back
type HistoryService interface {
	StartRun(ctx context.Context, name, baseURL, browser string) (*models.Run, error)
	Record(ctx context.Context, run *models.Run, r report.Result) error
	FinishRun(ctx context.Context, run *models.Run, s report.Summary, aborted bool) error
	Recent(ctx context.Context, scenarioID string, limit int) ([]models.ScenarioResult, error)
	Flakiness(ctx context.Context, runs int) ([]models.Flakiness, error)
}

// HistoryServiceImpl implements HistoryService
type HistoryServiceImpl struct {
	runRepo RunRepository
}

// NewHistoryService creates a new history service
func NewHistoryService(runRepo RunRepository) HistoryService {
	return &HistoryServiceImpl{
		runRepo: runRepo,
	}
}

// StartRun creates and stores a running run
func (s *HistoryServiceImpl) StartRun(ctx context.Context, name, baseURL, browser string) (*models.Run, error) {
	run, err := models.NewRun(name, baseURL, browser)
	if err != nil {
		return nil, fmt.Errorf("invalid run: %w", err)
	}

	if err := s.runRepo.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	return run, nil
}

// Record stores one scenario result against run
func (s *HistoryServiceImpl) Record(ctx context.Context, run *models.Run, r report.Result) error {
	if !run.IsRunning() {
		return fmt.Errorf("%w: run %s is %s", models.ErrInvalidStatusTransition, run.ID, run.Status)
	}

	res := &models.ScenarioResult{
		RunID:             run.ID,
		ScenarioID:        r.ID,
		Suite:             r.Suite,
		Name:              r.Name,
		Outcome:           string(r.Kind),
		ExpectedRejection: r.ExpectedRejection,
		Message:           r.Message,
		StartedAt:         r.StartedAt,
		Duration:          r.Duration,
	}
	if err := res.Validate(); err != nil {
		return fmt.Errorf("invalid result for %s: %w", r.ID, err)
	}

	if err := s.runRepo.RecordResult(ctx, res); err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	return nil
}

// FinishRun closes run with the summary's counts. An aborted run keeps
// whatever counts it reached.
func (s *HistoryServiceImpl) FinishRun(ctx context.Context, run *models.Run, summary report.Summary, aborted bool) error {
	counts := models.RunCounts{
		Total:     summary.Total,
		Passed:    summary.Passed,
		Assertion: summary.Assertion,
		Timeout:   summary.Timeout,
		Error:     summary.Error,
		Skipped:   summary.Skipped,
	}

	// Use domain methods to transition state
	var err error
	if aborted {
		err = run.Abort(counts)
	} else {
		err = run.Finish(counts)
	}
	if err != nil {
		return err
	}

	if err := s.runRepo.FinishRun(ctx, run); err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// Recent returns a scenario's latest results, newest first
func (s *HistoryServiceImpl) Recent(ctx context.Context, scenarioID string, limit int) ([]models.ScenarioResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	results, err := s.runRepo.RecentResults(ctx, scenarioID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent results: %w", err)
	}
	return results, nil
}

// Flakiness returns per-scenario outcome counts over the last runs finished runs
func (s *HistoryServiceImpl) Flakiness(ctx context.Context, runs int) ([]models.Flakiness, error) {
	if runs <= 0 {
		return nil, fmt.Errorf("run window must be positive, got %d", runs)
	}
	report, err := s.runRepo.FlakinessReport(ctx, runs)
	if err != nil {
		return nil, fmt.Errorf("failed to get flakiness: %w", err)
	}
	return report, nil
}
