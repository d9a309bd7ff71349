package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	internalcli "github.com/themizzi/shopcheck/internal/cli"
	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/database"
	"github.com/themizzi/shopcheck/internal/handlers"
	"github.com/themizzi/shopcheck/internal/repository"
	"github.com/themizzi/shopcheck/internal/runner"
	"github.com/themizzi/shopcheck/internal/services"
	"github.com/themizzi/shopcheck/internal/storefront"
)

var version = "0.1.0"

var logger = zap.NewNop()

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

// loadSuiteConfig layers command-line overrides over the suite file and environment
func loadSuiteConfig(c *cli.Context) (*config.SuiteConfig, error) {
	cfg, err := config.LoadSuiteConfig(c.String("config"), os.Getenv)
	if err != nil {
		return nil, err
	}

	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("browser") {
		cfg.Browser = c.String("browser")
	}
	if c.IsSet("parallel") {
		cfg.Parallelism = c.Int("parallel")
	}
	if c.IsSet("junit") {
		cfg.JUnitPath = c.String("junit")
	}
	if c.Bool("headed") {
		cfg.Headless = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid suite configuration: %w", err)
	}
	return cfg, nil
}

// connectHistory opens the run history database and migrates it
func connectHistory() (services.HistoryService, error) {
	if err := database.Connect(os.Getenv); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("connected to run history database")

	if err := database.RunMigrations(logger); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	return services.NewHistoryService(repository.NewRunRepository()), nil
}

func selectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: "suite", Aliases: []string{"s"}, Usage: "select scenarios in `SUITE` (repeatable)"},
		&cli.StringSliceFlag{Name: "id", Usage: "select the scenario with `ID` (repeatable)"},
	}
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the local sandbox storefront",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen on `PORT` (default $PORT or 8080)"},
		},
		Action: func(c *cli.Context) error {
			serverConfig := config.LoadServerConfig(os.Getenv)
			if c.IsSet("port") {
				serverConfig.Port = c.String("port")
			}

			password := os.Getenv("SHOPCHECK_PASSWORD")
			if password == "" {
				password = config.DefaultPassword
			}

			handler, err := handlers.NewStorefront(storefront.NewStore(password), logger)
			if err != nil {
				return err
			}

			return internalcli.RunServe(internalcli.ServerDependencies{
				ServerConfig: serverConfig,
				Handler:      handler,
				Logger:       logger,
			})
		},
	}
}

// InstallCommand returns the install command
func InstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Download the Playwright driver and the configured browser",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "browser", Usage: "browser engine: chromium, firefox or webkit"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadSuiteConfig(c)
			if err != nil {
				return err
			}
			logger.Info("installing browser", zap.String("browser", cfg.Browser))
			return runner.Install(cfg)
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	app := &cli.App{
		Name:    "shopcheck",
		Usage:   "End-to-end acceptance suite for the demo storefront",
		Version: version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "enable debug logging"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load suite settings from YAML `FILE`", EnvVars: []string{"SHOPCHECK_CONFIG"}},
		},
		Before: func(c *cli.Context) error {
			l, err := newLogger(c.Bool("verbose"))
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		After: func(c *cli.Context) error {
			_ = logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			RunCommand(),
			ListCommand(),
			HistoryCommand(),
			ServeCommand(),
			InstallCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
