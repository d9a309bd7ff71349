//go:build e2e

// Package e2e drives a deployed storefront with a real browser. Point
// SHOPCHECK_BASE_URL at the deployment (defaults to the public demo) and run
// with -tags e2e.
package e2e

import (
	"fmt"
	"os"
	"testing"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/flows"
	"github.com/themizzi/shopcheck/internal/runner"
)

var (
	pw      *playwright.Playwright
	browser playwright.Browser
	cfg     *config.SuiteConfig
)

// sharedLauncher hands out sessions on the package browser.
type sharedLauncher struct{}

func (sharedLauncher) NewSession(opts flows.Options, logger *zap.Logger) (*flows.Session, error) {
	return flows.Open(browser, cfg, opts, logger)
}

func (sharedLauncher) Close() error { return nil }

// TestMain sets up and tears down the Playwright browser for all tests
func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	var err error

	cfg, err = config.LoadSuiteConfig(os.Getenv("SHOPCHECK_CONFIG"), os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid suite configuration: %v\n", err)
		return 1
	}

	// Browsers are installed with: shopcheck install
	pw, err = playwright.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start playwright: %v\n", err)
		return 1
	}
	defer pw.Stop()

	browser, err = runner.Engine(pw, cfg.Browser).Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to launch %s: %v\n", cfg.Browser, err)
		return 1
	}
	defer browser.Close()

	return m.Run()
}
