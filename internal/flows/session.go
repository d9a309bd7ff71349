// Package flows holds the composable session actions every storefront
// scenario is built from: the dropdown selector, the session establisher,
// the cart mutator and the checkout completer, plus thin expectation helpers
// that turn Playwright results into classified failures.
package flows

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/failure"
)

// Options adjusts the browser context a session is opened with.
type Options struct {
	Geolocation *playwright.Geolocation
	Permissions []string
}

// WithGeolocation returns options granting the geolocation permission at the given coordinates.
func WithGeolocation(latitude, longitude float64) Options {
	return Options{
		Geolocation: &playwright.Geolocation{Latitude: latitude, Longitude: longitude},
		Permissions: []string{"geolocation"},
	}
}

// Session is one isolated browser context and page. It is never shared
// between scenarios.
type Session struct {
	Context playwright.BrowserContext
	Page    playwright.Page

	cfg    *config.SuiteConfig
	logger *zap.Logger
	expect playwright.PlaywrightAssertions
}

// NewSession wraps an existing context and page.
func NewSession(browserCtx playwright.BrowserContext, page playwright.Page, cfg *config.SuiteConfig, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		Context: browserCtx,
		Page:    page,
		cfg:     cfg,
		logger:  logger,
		expect:  playwright.NewPlaywrightAssertions(config.Milliseconds(cfg.DefaultTimeout)),
	}
}

// Open creates a fresh context (own cookie and storage jar) and page on browser.
func Open(browser playwright.Browser, cfg *config.SuiteConfig, opts Options, logger *zap.Logger) (*Session, error) {
	ctxOpts := playwright.BrowserNewContextOptions{
		BaseURL:         playwright.String(cfg.BaseURL),
		AcceptDownloads: playwright.Bool(true),
	}
	if opts.Geolocation != nil {
		ctxOpts.Geolocation = opts.Geolocation
	}
	if len(opts.Permissions) > 0 {
		ctxOpts.Permissions = opts.Permissions
	}

	browserCtx, err := browser.NewContext(ctxOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	browserCtx.SetDefaultTimeout(config.Milliseconds(cfg.DefaultTimeout))
	browserCtx.SetDefaultNavigationTimeout(config.Milliseconds(cfg.DefaultTimeout))

	page, err := browserCtx.NewPage()
	if err != nil {
		_ = browserCtx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return NewSession(browserCtx, page, cfg, logger), nil
}

// Close tears down the browser context and everything in it.
func (s *Session) Close() error {
	if s == nil || s.Context == nil {
		return nil
	}
	return s.Context.Close()
}

// Config returns the suite configuration the session was opened with.
func (s *Session) Config() *config.SuiteConfig { return s.cfg }

// Logger returns the scenario-scoped logger.
func (s *Session) Logger() *zap.Logger { return s.logger }

// URL resolves path against the configured base URL.
func (s *Session) URL(path string) string {
	return s.cfg.BaseURL + path
}

// Goto navigates to path on the storefront.
func (s *Session) Goto(path string) error {
	s.logger.Debug("navigating", zap.String("path", path))
	if _, err := s.Page.Goto(s.URL(path)); err != nil {
		return waitErr(err, "navigate to %s", path)
	}
	return nil
}

// WaitForNetworkIdle blocks until the page has no in-flight requests.
func (s *Session) WaitForNetworkIdle() error {
	err := s.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
	return waitErr(err, "network never went idle on %s", s.Page.URL())
}

// Visit navigates to path and waits for the network to settle.
func (s *Session) Visit(path string) error {
	if err := s.Goto(path); err != nil {
		return err
	}
	return s.WaitForNetworkIdle()
}

// ExpectURL asserts the page URL matches pattern within the default timeout.
func (s *Session) ExpectURL(pattern *regexp.Regexp) error {
	err := s.expect.Page(s.Page).ToHaveURL(pattern)
	return failure.Assertion(err, "expected URL matching %s, got %s", pattern, s.Page.URL())
}

// ExpectVisible asserts the first element matching selector is visible.
func (s *Session) ExpectVisible(selector string) error {
	return s.ExpectLocatorVisible(s.Page.Locator(selector).First(), selector)
}

// ExpectLocatorVisible asserts locator is visible; what names it in the failure.
func (s *Session) ExpectLocatorVisible(locator playwright.Locator, what string) error {
	err := s.expect.Locator(locator).ToBeVisible()
	return failure.Assertion(err, "expected %s to be visible", what)
}

// ExpectText asserts the first element matching selector has exactly text.
func (s *Session) ExpectText(selector, text string) error {
	err := s.expect.Locator(s.Page.Locator(selector).First()).ToHaveText(text)
	return failure.Assertion(err, "expected %s to read %q", selector, text)
}

// ExpectCount asserts exactly n elements match selector.
func (s *Session) ExpectCount(selector string, n int) error {
	err := s.expect.Locator(s.Page.Locator(selector)).ToHaveCount(n)
	return failure.Assertion(err, "expected %d elements matching %s", n, selector)
}

// Count returns how many elements currently match selector.
func (s *Session) Count(selector string) (int, error) {
	n, err := s.Page.Locator(selector).Count()
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", selector, err)
	}
	return n, nil
}

// Text returns the rendered text of the first element matching selector.
func (s *Session) Text(selector string) (string, error) {
	text, err := s.Page.Locator(selector).First().InnerText()
	if err != nil {
		return "", waitErr(err, "read text of %s", selector)
	}
	return text, nil
}

// Texts returns the rendered text of every element matching selector.
func (s *Session) Texts(selector string) ([]string, error) {
	texts, err := s.Page.Locator(selector).AllInnerTexts()
	if err != nil {
		return nil, fmt.Errorf("read texts of %s: %w", selector, err)
	}
	return texts, nil
}

// Visible reports whether the first element matching selector is visible right now.
func (s *Session) Visible(selector string) (bool, error) {
	visible, err := s.Page.Locator(selector).First().IsVisible()
	if err != nil {
		return false, fmt.Errorf("visibility of %s: %w", selector, err)
	}
	return visible, nil
}

// WaitVisible blocks until the first element matching selector is visible.
func (s *Session) WaitVisible(selector string) error {
	err := s.Page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	})
	return waitErr(err, "%s never became visible", selector)
}

// Click clicks the first element matching selector.
func (s *Session) Click(selector string) error {
	return waitErr(s.Page.Locator(selector).First().Click(), "click %s", selector)
}

// Check fails with an assertion error when cond is false.
func Check(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return failure.Assertionf(format, args...)
}

// waitErr classifies an error from a Playwright wait: timeouts become
// timeout failures, everything else is wrapped unclassified.
func waitErr(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return failure.Timeoutf(err, format, args...)
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
