package models

import (
	"errors"
	"time"
)

// Outcome kinds a recorded result may carry
const (
	OutcomePassed    = "passed"
	OutcomeAssertion = "assertion"
	OutcomeTimeout   = "timeout"
	OutcomeError     = "error"
	OutcomeSkipped   = "skipped"
)

var (
	ErrInvalidScenarioID = errors.New("scenario id cannot be empty")
	ErrInvalidOutcome    = errors.New("unknown scenario outcome")
	ErrMissingRun        = errors.New("scenario result must belong to a run")
)

// ScenarioResult is one scenario's outcome within a run
type ScenarioResult struct {
	RunID             string
	ScenarioID        string
	Suite             string
	Name              string
	Outcome           string
	ExpectedRejection bool
	Message           string
	StartedAt         time.Time
	Duration          time.Duration
}

// Validate checks the result can be stored
func (r *ScenarioResult) Validate() error {
	if r.RunID == "" {
		return ErrMissingRun
	}
	if r.ScenarioID == "" {
		return ErrInvalidScenarioID
	}
	switch r.Outcome {
	case OutcomePassed, OutcomeAssertion, OutcomeTimeout, OutcomeError, OutcomeSkipped:
		return nil
	default:
		return ErrInvalidOutcome
	}
}

// Flakiness aggregates one scenario's outcomes over recent runs
type Flakiness struct {
	ScenarioID  string
	Runs        int
	Passed      int
	Assertion   int
	Timeout     int
	Error       int
	Skipped     int
	LastOutcome string
}

// Executed returns how many of the runs actually executed the scenario
func (f Flakiness) Executed() int {
	return f.Runs - f.Skipped
}

// Flaky returns true when the scenario both passed and did not pass
func (f Flakiness) Flaky() bool {
	return f.Passed > 0 && f.Assertion+f.Timeout+f.Error > 0
}

// Environmental returns true when every non-pass was a timeout or an
// infrastructure error rather than an assertion failure
func (f Flakiness) Environmental() bool {
	return f.Assertion == 0 && f.Timeout+f.Error > 0
}

// PassRate returns the share of executed runs that passed, or 0 when none executed
func (f Flakiness) PassRate() float64 {
	if f.Executed() == 0 {
		return 0
	}
	return float64(f.Passed) / float64(f.Executed())
}
