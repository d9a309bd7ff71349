package runner

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/flows"
)

// Launcher opens isolated sessions for scenarios.
type Launcher interface {
	NewSession(opts flows.Options, logger *zap.Logger) (*flows.Session, error)
	Close() error
}

// PlaywrightLauncher drives one browser process and hands every scenario its
// own context inside it.
type PlaywrightLauncher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	cfg     *config.SuiteConfig
}

// Launch starts Playwright and the configured browser engine.
func Launch(cfg *config.SuiteConfig) (*PlaywrightLauncher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := Engine(pw, cfg.Browser).Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", cfg.Browser, err)
	}

	return &PlaywrightLauncher{pw: pw, browser: browser, cfg: cfg}, nil
}

// NewSession opens a fresh browser context for one scenario.
func (l *PlaywrightLauncher) NewSession(opts flows.Options, logger *zap.Logger) (*flows.Session, error) {
	return flows.Open(l.browser, l.cfg, opts, logger)
}

// Close shuts the browser and the Playwright driver down.
func (l *PlaywrightLauncher) Close() error {
	return errors.Join(l.browser.Close(), l.pw.Stop())
}

// Engine returns the browser type named by browser, defaulting to Chromium.
func Engine(pw *playwright.Playwright, browser string) playwright.BrowserType {
	switch browser {
	case config.BrowserFirefox:
		return pw.Firefox
	case config.BrowserWebKit:
		return pw.WebKit
	default:
		return pw.Chromium
	}
}

// Install downloads the driver and the browser engine named in cfg.
func Install(cfg *config.SuiteConfig) error {
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{cfg.Browser}}); err != nil {
		return fmt.Errorf("failed to install %s: %w", cfg.Browser, err)
	}
	return nil
}
