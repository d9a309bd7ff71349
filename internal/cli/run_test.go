package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/failure"
	"github.com/themizzi/shopcheck/internal/flows"
	"github.com/themizzi/shopcheck/internal/models"
	"github.com/themizzi/shopcheck/internal/report"
	"github.com/themizzi/shopcheck/internal/runner"
)

// stubLauncher opens browserless sessions, or fails every open with err.
type stubLauncher struct {
	cfg *config.SuiteConfig
	err error

	mu     sync.Mutex
	opened int
}

func (l *stubLauncher) NewSession(_ flows.Options, logger *zap.Logger) (*flows.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.opened++
	return flows.NewSession(nil, nil, l.cfg, logger), nil
}

func (l *stubLauncher) Close() error { return nil }

type fakeHistory struct {
	startErr error

	mu       sync.Mutex
	run      *models.Run
	recorded []report.Result
	finished *report.Summary
	aborted  bool
}

func (h *fakeHistory) StartRun(_ context.Context, name, baseURL, browser string) (*models.Run, error) {
	if h.startErr != nil {
		return nil, h.startErr
	}
	run, err := models.NewRun(name, baseURL, browser)
	h.run = run
	return run, err
}

func (h *fakeHistory) Record(_ context.Context, run *models.Run, r report.Result) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !run.IsRunning() {
		return errors.New("run is not running")
	}
	h.recorded = append(h.recorded, r)
	return nil
}

func (h *fakeHistory) FinishRun(_ context.Context, run *models.Run, s report.Summary, aborted bool) error {
	h.finished = &s
	h.aborted = aborted
	if aborted {
		return run.Abort(models.RunCounts{Total: s.Total, Passed: s.Passed, Assertion: s.Assertion, Timeout: s.Timeout, Error: s.Error, Skipped: s.Skipped})
	}
	return run.Finish(models.RunCounts{Total: s.Total, Passed: s.Passed, Assertion: s.Assertion, Timeout: s.Timeout, Error: s.Error, Skipped: s.Skipped})
}

func (h *fakeHistory) Recent(context.Context, string, int) ([]models.ScenarioResult, error) {
	return nil, nil
}

func (h *fakeHistory) Flakiness(context.Context, int) ([]models.Flakiness, error) {
	return nil, nil
}

type fakePublisher struct {
	err   error
	runID string
	files []string
}

func (p *fakePublisher) Publish(_ context.Context, runID string, files []string) ([]string, error) {
	p.runID = runID
	p.files = files
	if p.err != nil {
		return nil, p.err
	}
	keys := make([]string, len(files))
	for i, f := range files {
		keys[i] = "shopcheck/" + runID + "/" + filepath.Base(f)
	}
	return keys, nil
}

func runConfig(t *testing.T) *config.SuiteConfig {
	cfg := config.DefaultSuiteConfig()
	cfg.JUnitPath = filepath.Join(t.TempDir(), "reports", "junit-results.xml")
	return cfg
}

func TestRunSuite_WritesReports(t *testing.T) {
	defer goleak.VerifyNone(t)

	// GIVEN the two sort scenarios, which never execute
	cfg := runConfig(t)
	var out bytes.Buffer
	deps := RunDependencies{Launcher: &stubLauncher{cfg: cfg}, Logger: zaptest.NewLogger(t), Out: &out}

	// WHEN
	outcome, err := RunSuite(context.Background(), deps, RunOptions{Name: "nightly", IDs: []string{"TC-181", "TC-182"}, Config: cfg})

	// THEN both are skipped and the run does not fail
	require.NoError(t, err)
	assert.Equal(t, report.Summary{Total: 2, Skipped: 2}, outcome.Summary)
	assert.False(t, outcome.Failed())
	assert.NotEmpty(t, outcome.RunID)
	assert.Contains(t, out.String(), report.Marker("TC-181"))
	assert.Contains(t, out.String(), "2 scenarios: 0 passed")

	require.Equal(t, []string{cfg.JUnitPath, SummaryPath(cfg.JUnitPath)}, outcome.Files)
	junit, err := os.ReadFile(cfg.JUnitPath)
	require.NoError(t, err)
	assert.Contains(t, string(junit), `name="nightly"`)

	data, err := os.ReadFile(SummaryPath(cfg.JUnitPath))
	require.NoError(t, err)
	var doc report.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "nightly", doc.Name)
	assert.Len(t, doc.Results, 2)
}

func TestRunSuite_RecordsHistory(t *testing.T) {
	defer goleak.VerifyNone(t)

	// GIVEN a launcher that cannot open sessions and a history store
	cfg := runConfig(t)
	history := &fakeHistory{}
	deps := RunDependencies{
		Launcher: &stubLauncher{cfg: cfg, err: errors.New("browser crashed")},
		History:  history,
		Logger:   zaptest.NewLogger(t),
	}

	// WHEN
	outcome, err := RunSuite(context.Background(), deps, RunOptions{IDs: []string{"TC-99", "TC-181"}, Config: cfg})

	// THEN every result is recorded under the stored run
	require.NoError(t, err)
	assert.True(t, outcome.Failed())
	assert.Equal(t, history.run.ID, outcome.RunID)
	assert.Len(t, history.recorded, 2)

	require.NotNil(t, history.finished)
	assert.Equal(t, report.Summary{Total: 2, Error: 1, Skipped: 1}, *history.finished)
	assert.False(t, history.aborted)
	assert.Equal(t, models.RunStatusFailed, history.run.Status)
}

func TestRunSuite_PublishesReports(t *testing.T) {
	cfg := runConfig(t)
	publisher := &fakePublisher{}
	deps := RunDependencies{Launcher: &stubLauncher{cfg: cfg}, Publisher: publisher, Logger: zap.NewNop()}

	outcome, err := RunSuite(context.Background(), deps, RunOptions{IDs: []string{"TC-181"}, Config: cfg})

	require.NoError(t, err)
	assert.Equal(t, outcome.RunID, publisher.runID)
	assert.Equal(t, outcome.Files, publisher.files)
	assert.Equal(t, []string{
		"shopcheck/" + outcome.RunID + "/junit-results.xml",
		"shopcheck/" + outcome.RunID + "/" + SummaryFile,
	}, outcome.Keys)
}

func TestRunSuite_Errors(t *testing.T) {
	tests := []struct {
		name      string
		opts      RunOptions
		history   *fakeHistory
		publisher *fakePublisher
		wantErr   string
		wantFiles bool
	}{
		{
			name:    "unknown suite",
			opts:    RunOptions{Suites: []string{"payments"}},
			wantErr: `unknown suite "payments"`,
		},
		{
			name:    "unknown scenario",
			opts:    RunOptions{IDs: []string{"TC-1"}},
			wantErr: `unknown scenario "TC-1"`,
		},
		{
			name:    "history unavailable",
			opts:    RunOptions{IDs: []string{"TC-181"}},
			history: &fakeHistory{startErr: errors.New("connection refused")},
			wantErr: "connection refused",
		},
		{
			name:      "publish failure",
			opts:      RunOptions{IDs: []string{"TC-181"}},
			publisher: &fakePublisher{err: errors.New("access denied")},
			wantErr:   "failed to publish reports: access denied",
			wantFiles: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := runConfig(t)
			launcher := &stubLauncher{cfg: cfg}
			deps := RunDependencies{Launcher: launcher, Logger: zap.NewNop()}
			if tt.history != nil {
				deps.History = tt.history
			}
			if tt.publisher != nil {
				deps.Publisher = tt.publisher
			}
			tt.opts.Config = cfg

			_, err := RunSuite(context.Background(), deps, tt.opts)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			_, statErr := os.Stat(cfg.JUnitPath)
			assert.Equal(t, tt.wantFiles, statErr == nil)
			assert.Zero(t, launcher.opened)
		})
	}
}

func TestRunSuite_CancelledRunIsAborted(t *testing.T) {
	defer goleak.VerifyNone(t)

	// GIVEN a run cancelled before it starts
	cfg := runConfig(t)
	history := &fakeHistory{}
	launcher := &stubLauncher{cfg: cfg}
	deps := RunDependencies{Launcher: launcher, History: history, Logger: zap.NewNop()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// WHEN
	outcome, err := RunSuite(ctx, deps, RunOptions{IDs: []string{"TC-99", "TC-166"}, Config: cfg})

	// THEN nothing runs, reports are still written and the run is aborted
	require.NoError(t, err)
	assert.True(t, outcome.Aborted)
	assert.True(t, outcome.Failed())
	assert.Zero(t, launcher.opened)
	for _, r := range outcome.Results {
		assert.Equal(t, failure.KindSkipped, r.Kind)
		assert.Contains(t, r.Message, runner.CancelledReason)
	}
	assert.FileExists(t, cfg.JUnitPath)
	assert.True(t, history.aborted)
	assert.Equal(t, models.RunStatusAborted, history.run.Status)
}

func TestSummaryPath(t *testing.T) {
	assert.Equal(t, filepath.Join("test-results", SummaryFile), SummaryPath(config.DefaultJUnitPath))
	assert.Equal(t, SummaryFile, SummaryPath("junit.xml"))
}
