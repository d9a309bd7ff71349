// Package runner executes catalog scenarios, each in its own browser
// context, with a bounded number running at once.
package runner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/failure"
	"github.com/themizzi/shopcheck/internal/report"
	"github.com/themizzi/shopcheck/internal/scenarios"
)

// Reporter receives each result as soon as its scenario finishes.
type Reporter interface {
	Report(r report.Result)
}

// CancelledReason is the skip message of scenarios the run never started.
const CancelledReason = "run cancelled before the scenario started"

// Runner runs scenarios through a Launcher.
type Runner struct {
	launcher Launcher
	cfg      *config.SuiteConfig
	logger   *zap.Logger
	reporter Reporter
}

// New creates a runner. reporter may be nil.
func New(launcher Launcher, cfg *config.SuiteConfig, logger *zap.Logger, reporter Reporter) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{launcher: launcher, cfg: cfg, logger: logger, reporter: reporter}
}

// Run executes scenarios with at most cfg.Parallelism in flight and returns
// one result per scenario in input order. Scenarios are never retried.
// Cancelling ctx stops new scenarios from starting; the ones already running
// finish and the rest are reported as skipped.
func (r *Runner) Run(ctx context.Context, list []scenarios.Scenario) []report.Result {
	results := make([]report.Result, len(list))

	g := new(errgroup.Group)
	g.SetLimit(max(r.cfg.Parallelism, 1))

	r.logger.Info("starting run",
		zap.Int("scenarios", len(list)),
		zap.Int("parallelism", r.cfg.Parallelism),
		zap.String("baseURL", r.cfg.BaseURL),
	)

	for i, sc := range list {
		if ctx.Err() != nil {
			results[i] = r.cancelled(sc)
			r.emit(results[i])
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = r.cancelled(sc)
			} else {
				results[i] = r.runOne(sc)
			}
			r.emit(results[i])
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// emit hands a finished or cancelled result to the reporter, if any.
func (r *Runner) emit(res report.Result) {
	if r.reporter != nil {
		r.reporter.Report(res)
	}
}

func (r *Runner) cancelled(sc scenarios.Scenario) report.Result {
	return report.NewResult(sc.ID, string(sc.Suite), sc.Name, sc.ExpectsRejection, time.Now(), failure.Skip(CancelledReason))
}

func (r *Runner) runOne(sc scenarios.Scenario) report.Result {
	started := time.Now()
	logger := r.logger.With(zap.String("scenario", sc.ID), zap.String("suite", string(sc.Suite)))

	if sc.Skip != "" {
		return report.NewResult(sc.ID, string(sc.Suite), sc.Name, sc.ExpectsRejection, started, failure.Skip(sc.Skip))
	}

	logger.Debug("starting scenario", zap.String("name", sc.Name))
	err := r.execute(sc, logger)
	return report.NewResult(sc.ID, string(sc.Suite), sc.Name, sc.ExpectsRejection, started, err)
}

func (r *Runner) execute(sc scenarios.Scenario, logger *zap.Logger) (err error) {
	session, err := r.launcher.NewSession(sc.Options, logger)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			logger.Warn("failed to close session", zap.Error(cerr))
		}
	}()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("scenario panicked: %v", p)
		}
	}()

	return sc.Run(session)
}
