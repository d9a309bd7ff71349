package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents valid suite run states
type RunStatus string

// Run statuses
const (
	RunStatusRunning RunStatus = "running"
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
	RunStatusAborted RunStatus = "aborted"
)

// RunCounts holds per-outcome totals of a finished run
type RunCounts struct {
	Total     int
	Passed    int
	Assertion int
	Timeout   int
	Error     int
	Skipped   int
}

// Failed reports whether any scenario failed, timed out or errored
func (c RunCounts) Failed() bool {
	return c.Assertion+c.Timeout+c.Error > 0
}

// Run is one execution of a scenario selection against a storefront
type Run struct {
	ID         string
	Name       string
	BaseURL    string
	Browser    string
	Status     RunStatus
	Counts     RunCounts
	StartedAt  time.Time
	FinishedAt time.Time
}

// Domain errors
var (
	ErrInvalidRunName          = errors.New("run name cannot be empty")
	ErrInvalidBaseURL          = errors.New("base URL cannot be empty")
	ErrInvalidStatusTransition = errors.New("invalid run status transition")
	ErrInconsistentCounts      = errors.New("outcome counts do not add up to the total")
)

// NewRun creates a new running suite run with validation
func NewRun(name, baseURL, browser string) (*Run, error) {
	if name == "" {
		return nil, ErrInvalidRunName
	}
	if baseURL == "" {
		return nil, ErrInvalidBaseURL
	}

	return &Run{
		ID:        uuid.New().String(),
		Name:      name,
		BaseURL:   baseURL,
		Browser:   browser,
		Status:    RunStatusRunning,
		StartedAt: time.Now(),
	}, nil
}

// Finish closes a running run as passed or failed depending on counts
func (r *Run) Finish(counts RunCounts) error {
	if r.Status != RunStatusRunning {
		return fmt.Errorf("%w: cannot finish run with status %s", ErrInvalidStatusTransition, r.Status)
	}
	if counts.Passed+counts.Assertion+counts.Timeout+counts.Error+counts.Skipped != counts.Total {
		return ErrInconsistentCounts
	}

	r.Counts = counts
	r.Status = RunStatusPassed
	if counts.Failed() {
		r.Status = RunStatusFailed
	}
	r.FinishedAt = time.Now()
	return nil
}

// Abort marks a run that was interrupted before every scenario finished
func (r *Run) Abort(counts RunCounts) error {
	if r.Status != RunStatusRunning {
		return fmt.Errorf("%w: cannot abort run with status %s", ErrInvalidStatusTransition, r.Status)
	}

	r.Counts = counts
	r.Status = RunStatusAborted
	r.FinishedAt = time.Now()
	return nil
}

// IsRunning returns true while scenarios are still executing
func (r *Run) IsRunning() bool {
	return r.Status == RunStatusRunning
}

// IsFinished returns true once the run has passed, failed or been aborted
func (r *Run) IsFinished() bool {
	return r.Status != RunStatusRunning
}

// Duration returns how long the run took, or has taken so far
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
