package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/artifacts"
	internalcli "github.com/themizzi/shopcheck/internal/cli"
	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/database"
	"github.com/themizzi/shopcheck/internal/runner"
	"github.com/themizzi/shopcheck/internal/scenarios"
)

// Exit codes beyond the generic 1 used for errors.
const (
	exitFailed    = 2
	exitCancelled = 130
)

// RunCommand returns the run command
func RunCommand() *cli.Command {
	flags := append([]cli.Flag{
		&cli.StringFlag{Name: "name", Value: "shopcheck", Usage: "report and history `NAME` of the run"},
		&cli.StringFlag{Name: "base-url", Usage: "storefront root `URL`"},
		&cli.StringFlag{Name: "browser", Usage: "browser engine: chromium, firefox or webkit"},
		&cli.IntFlag{Name: "parallel", Aliases: []string{"p"}, Usage: "run up to `N` scenarios at once"},
		&cli.StringFlag{Name: "junit", Usage: "write the JUnit report to `PATH`"},
		&cli.BoolFlag{Name: "headed", Usage: "show the browser window"},
		&cli.BoolFlag{Name: "record", Usage: "store results in the Postgres run history", EnvVars: []string{"SHOPCHECK_RECORD"}},
		&cli.BoolFlag{Name: "publish", Usage: "upload reports to the configured S3 bucket", EnvVars: []string{"SHOPCHECK_PUBLISH"}},
	}, selectionFlags()...)

	return &cli.Command{
		Name:  "run",
		Usage: "Run acceptance scenarios against the storefront",
		Flags: flags,
		Action: func(c *cli.Context) error {
			cfg, err := loadSuiteConfig(c)
			if err != nil {
				return err
			}

			deps := internalcli.RunDependencies{Logger: logger, Out: os.Stdout}

			if c.Bool("record") {
				history, err := connectHistory()
				if err != nil {
					return err
				}
				defer database.Close()
				deps.History = history
			}

			if c.Bool("publish") {
				artifactConfig, err := config.LoadArtifactConfig(os.Getenv)
				if err != nil {
					return fmt.Errorf("missing report publishing configuration: %w", err)
				}
				publisher, err := artifacts.New(c.Context, artifactConfig, logger)
				if err != nil {
					return err
				}
				deps.Publisher = publisher
			}

			launcher, err := runner.Launch(cfg)
			if err != nil {
				return fmt.Errorf("failed to start %s (try `shopcheck install`): %w", cfg.Browser, err)
			}
			defer func() {
				if err := launcher.Close(); err != nil {
					logger.Warn("failed to stop browser", zap.Error(err))
				}
			}()
			deps.Launcher = launcher

			outcome, err := internalcli.RunSuite(c.Context, deps, internalcli.RunOptions{
				Name:   c.String("name"),
				Suites: c.StringSlice("suite"),
				IDs:    c.StringSlice("id"),
				Config: cfg,
			})
			if err != nil {
				return err
			}

			switch {
			case outcome.Aborted:
				return cli.Exit("run cancelled", exitCancelled)
			case outcome.Failed():
				return cli.Exit(fmt.Sprintf("%d of %d scenarios failed",
					outcome.Summary.Assertion+outcome.Summary.Timeout+outcome.Summary.Error, outcome.Summary.Total), exitFailed)
			}
			return nil
		},
	}
}

// ListCommand returns the list command
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List catalog scenarios",
		Flags: selectionFlags(),
		Action: func(c *cli.Context) error {
			list, err := scenarios.Select(scenarios.Catalog(), c.StringSlice("suite"), c.StringSlice("id"))
			if err != nil {
				return err
			}
			return internalcli.PrintCatalog(c.App.Writer, list)
		},
	}
}

// HistoryCommand returns the history command
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show flakiness over recent runs, or one scenario's latest results",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "runs", Value: 20, Usage: "consider the last `N` finished runs"},
			&cli.StringFlag{Name: "id", Usage: "show the latest results of scenario `ID`"},
			&cli.IntFlag{Name: "limit", Value: 10, Usage: "show at most `N` results with --id"},
		},
		Action: func(c *cli.Context) error {
			history, err := connectHistory()
			if err != nil {
				return err
			}
			defer database.Close()

			if id := c.String("id"); id != "" {
				results, err := history.Recent(c.Context, id, c.Int("limit"))
				if err != nil {
					return err
				}
				return internalcli.PrintRecent(c.App.Writer, results)
			}

			entries, err := history.Flakiness(c.Context, c.Int("runs"))
			if err != nil {
				return err
			}
			return internalcli.PrintFlakiness(c.App.Writer, entries)
		},
	}
}
