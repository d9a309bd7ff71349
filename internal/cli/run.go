package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/models"
	"github.com/themizzi/shopcheck/internal/report"
	"github.com/themizzi/shopcheck/internal/runner"
	"github.com/themizzi/shopcheck/internal/scenarios"
	"github.com/themizzi/shopcheck/internal/services"
)

// SummaryFile is the name of the JSON summary written next to the JUnit report.
const SummaryFile = "summary.json"

// ErrNoScenarios is returned when the selection matches nothing runnable.
var ErrNoScenarios = errors.New("no scenarios selected")

// ReportPublisher uploads finished report files for a run.
type ReportPublisher interface {
	Publish(ctx context.Context, runID string, files []string) ([]string, error)
}

// RunDependencies holds everything one suite run needs. History and
// Publisher are optional.
type RunDependencies struct {
	Launcher  runner.Launcher
	History   services.HistoryService
	Publisher ReportPublisher
	Logger    *zap.Logger
	Out       io.Writer
}

// RunOptions selects the scenarios of a run and names it.
type RunOptions struct {
	Name   string
	Suites []string
	IDs    []string
	Config *config.SuiteConfig
}

// RunOutcome is what a finished run produced.
type RunOutcome struct {
	RunID   string
	Summary report.Summary
	Results []report.Result
	Files   []string
	Keys    []string
	Aborted bool
}

// Failed reports whether the run should fail the calling process.
func (o *RunOutcome) Failed() bool {
	return o.Aborted || o.Summary.Failed()
}

// SummaryPath returns where the JSON summary goes for a JUnit path.
func SummaryPath(junitPath string) string {
	return filepath.Join(filepath.Dir(junitPath), SummaryFile)
}

// RunSuite runs the selected scenarios, prints each verdict as it lands,
// writes the JUnit and JSON reports, and records and publishes them when
// configured. Cancelling ctx stops scheduling; reports are still written.
func RunSuite(ctx context.Context, deps RunDependencies, opts RunOptions) (*RunOutcome, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := deps.Out
	if out == nil {
		out = io.Discard
	}
	cfg := opts.Config
	if opts.Name == "" {
		opts.Name = "shopcheck"
	}

	list, err := scenarios.Select(scenarios.Catalog(), opts.Suites, opts.IDs)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNoScenarios
	}

	outcome := &RunOutcome{RunID: uuid.New().String()}
	console := report.NewConsole(out, logger)
	reporters := fanout{console}

	var run *models.Run
	if deps.History != nil {
		run, err = deps.History.StartRun(ctx, opts.Name, cfg.BaseURL, cfg.Browser)
		if err != nil {
			return nil, err
		}
		outcome.RunID = run.ID
		reporters = append(reporters, &historyRecorder{ctx: ctx, history: deps.History, run: run, logger: logger})
	}

	logger = logger.With(zap.String("run", outcome.RunID))
	outcome.Results = runner.New(deps.Launcher, cfg, logger, reporters).Run(ctx, list)
	outcome.Summary = report.Summarize(outcome.Results)
	outcome.Aborted = ctx.Err() != nil
	console.PrintSummary(outcome.Summary)

	// Bookkeeping after the run must survive the cancellation that ended it.
	bg := context.WithoutCancel(ctx)

	if run != nil {
		if err := deps.History.FinishRun(bg, run, outcome.Summary, outcome.Aborted); err != nil {
			logger.Error("failed to finish run history", zap.Error(err))
		}
	}

	if err := report.WriteJUnitFile(cfg.JUnitPath, opts.Name, outcome.Results); err != nil {
		return outcome, err
	}
	summaryPath := SummaryPath(cfg.JUnitPath)
	if err := writeSummary(summaryPath, opts.Name, outcome.Results); err != nil {
		return outcome, err
	}
	outcome.Files = []string{cfg.JUnitPath, summaryPath}
	logger.Info("reports written", zap.Strings("files", outcome.Files))

	if deps.Publisher != nil {
		keys, err := deps.Publisher.Publish(bg, outcome.RunID, outcome.Files)
		outcome.Keys = keys
		if err != nil {
			return outcome, fmt.Errorf("failed to publish reports: %w", err)
		}
	}

	return outcome, nil
}

func writeSummary(path, name string, results []report.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary: %w", err)
	}
	if err := report.WriteJSON(f, name, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// fanout forwards each result to every reporter in order.
type fanout []runner.Reporter

func (f fanout) Report(r report.Result) {
	for _, rep := range f {
		rep.Report(r)
	}
}

// historyRecorder stores each result as it lands. A storage failure is
// logged and does not fail the scenario.
type historyRecorder struct {
	ctx     context.Context
	history services.HistoryService
	run     *models.Run
	logger  *zap.Logger
}

func (h *historyRecorder) Report(r report.Result) {
	if err := h.history.Record(context.WithoutCancel(h.ctx), h.run, r); err != nil {
		h.logger.Warn("failed to record result", zap.String("scenario", r.ID), zap.Error(err))
	}
}
