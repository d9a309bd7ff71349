package models

import (
	"errors"
	"testing"
)

func TestNewRun(t *testing.T) {
	tests := []struct {
		name    string
		runName string
		baseURL string
		wantErr error
	}{
		{
			name:    "valid run",
			runName: "nightly",
			baseURL: "https://testathon.live",
			wantErr: nil,
		},
		{
			name:    "empty name",
			runName: "",
			baseURL: "https://testathon.live",
			wantErr: ErrInvalidRunName,
		},
		{
			name:    "empty base URL",
			runName: "nightly",
			baseURL: "",
			wantErr: ErrInvalidBaseURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := NewRun(tt.runName, tt.baseURL, "chromium")

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("NewRun() error = %v, wantErr %v", err, tt.wantErr)
				}
				if run != nil {
					t.Error("Expected run to be nil when error occurs")
				}
				return
			}

			if err != nil {
				t.Errorf("NewRun() unexpected error = %v", err)
				return
			}

			if run.ID == "" {
				t.Error("Run ID should not be empty")
			}
			if run.Status != RunStatusRunning {
				t.Errorf("Expected status %s, got %s", RunStatusRunning, run.Status)
			}
			if run.StartedAt.IsZero() {
				t.Error("StartedAt should be set")
			}
			if !run.IsRunning() || run.IsFinished() {
				t.Error("New run should be running")
			}
		})
	}
}

func TestRun_Finish(t *testing.T) {
	tests := []struct {
		name         string
		initialState RunStatus
		counts       RunCounts
		wantStatus   RunStatus
		wantErr      error
	}{
		{
			name:         "all passed",
			initialState: RunStatusRunning,
			counts:       RunCounts{Total: 3, Passed: 2, Skipped: 1},
			wantStatus:   RunStatusPassed,
		},
		{
			name:         "assertion failure fails the run",
			initialState: RunStatusRunning,
			counts:       RunCounts{Total: 3, Passed: 2, Assertion: 1},
			wantStatus:   RunStatusFailed,
		},
		{
			name:         "timeout fails the run",
			initialState: RunStatusRunning,
			counts:       RunCounts{Total: 2, Passed: 1, Timeout: 1},
			wantStatus:   RunStatusFailed,
		},
		{
			name:         "counts that do not add up",
			initialState: RunStatusRunning,
			counts:       RunCounts{Total: 5, Passed: 2},
			wantErr:      ErrInconsistentCounts,
		},
		{
			name:         "cannot finish a finished run",
			initialState: RunStatusPassed,
			counts:       RunCounts{Total: 1, Passed: 1},
			wantErr:      ErrInvalidStatusTransition,
		},
		{
			name:         "cannot finish an aborted run",
			initialState: RunStatusAborted,
			counts:       RunCounts{Total: 1, Passed: 1},
			wantErr:      ErrInvalidStatusTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &Run{ID: "test-id", Status: tt.initialState}

			err := run.Finish(tt.counts)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Finish() error = %v, wantErr %v", err, tt.wantErr)
				}
				if run.Status != tt.initialState {
					t.Errorf("Status changed to %s on error", run.Status)
				}
				return
			}

			if err != nil {
				t.Fatalf("Finish() unexpected error = %v", err)
			}
			if run.Status != tt.wantStatus {
				t.Errorf("Expected status %s, got %s", tt.wantStatus, run.Status)
			}
			if run.Counts != tt.counts {
				t.Errorf("Expected counts %+v, got %+v", tt.counts, run.Counts)
			}
			if run.FinishedAt.IsZero() {
				t.Error("FinishedAt should be set")
			}
		})
	}
}

func TestRun_Abort(t *testing.T) {
	tests := []struct {
		name         string
		initialState RunStatus
		wantErr      bool
	}{
		{
			name:         "abort running run",
			initialState: RunStatusRunning,
			wantErr:      false,
		},
		{
			name:         "cannot abort passed run",
			initialState: RunStatusPassed,
			wantErr:      true,
		},
		{
			name:         "cannot abort failed run",
			initialState: RunStatusFailed,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &Run{ID: "test-id", Status: tt.initialState}

			err := run.Abort(RunCounts{Total: 4, Passed: 1})

			if (err != nil) != tt.wantErr {
				t.Errorf("Abort() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && run.Status != RunStatusAborted {
				t.Errorf("Expected status %s, got %s", RunStatusAborted, run.Status)
			}
		})
	}
}

func TestScenarioResult_Validate(t *testing.T) {
	valid := ScenarioResult{RunID: "run", ScenarioID: "TC-166", Outcome: OutcomePassed}

	tests := []struct {
		name    string
		mutate  func(*ScenarioResult)
		wantErr error
	}{
		{name: "valid", mutate: func(*ScenarioResult) {}},
		{name: "missing run", mutate: func(r *ScenarioResult) { r.RunID = "" }, wantErr: ErrMissingRun},
		{name: "missing scenario", mutate: func(r *ScenarioResult) { r.ScenarioID = "" }, wantErr: ErrInvalidScenarioID},
		{name: "expected rejection is not a stored outcome", mutate: func(r *ScenarioResult) { r.Outcome = "expected-rejection" }, wantErr: ErrInvalidOutcome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			if err := r.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFlakiness(t *testing.T) {
	tests := []struct {
		name              string
		f                 Flakiness
		wantFlaky         bool
		wantEnvironmental bool
		wantPassRate      float64
	}{
		{
			name:         "always passes",
			f:            Flakiness{Runs: 4, Passed: 4},
			wantPassRate: 1,
		},
		{
			name:              "times out sometimes",
			f:                 Flakiness{Runs: 4, Passed: 3, Timeout: 1},
			wantFlaky:         true,
			wantEnvironmental: true,
			wantPassRate:      0.75,
		},
		{
			name:         "regression",
			f:            Flakiness{Runs: 2, Assertion: 2},
			wantPassRate: 0,
		},
		{
			name:         "mixed assertion and error",
			f:            Flakiness{Runs: 4, Passed: 2, Assertion: 1, Error: 1},
			wantFlaky:    true,
			wantPassRate: 0.5,
		},
		{
			name:         "skipped runs do not count",
			f:            Flakiness{Runs: 3, Passed: 1, Skipped: 2},
			wantPassRate: 1,
		},
		{
			name: "never executed",
			f:    Flakiness{Runs: 2, Skipped: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Flaky(); got != tt.wantFlaky {
				t.Errorf("Flaky() = %v, want %v", got, tt.wantFlaky)
			}
			if got := tt.f.Environmental(); got != tt.wantEnvironmental {
				t.Errorf("Environmental() = %v, want %v", got, tt.wantEnvironmental)
			}
			if got := tt.f.PassRate(); got != tt.wantPassRate {
				t.Errorf("PassRate() = %v, want %v", got, tt.wantPassRate)
			}
		})
	}
}
