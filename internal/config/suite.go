package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported browser engines.
const (
	BrowserChromium = "chromium"
	BrowserFirefox  = "firefox"
	BrowserWebKit   = "webkit"
)

// Defaults for the public demo deployment.
const (
	DefaultBaseURL            = "https://testathon.live"
	DefaultPassword           = "testingisfun99"
	DefaultTimeout            = 10 * time.Second
	DefaultCheckoutTimeout    = 15 * time.Second
	DefaultGeolocationTimeout = 15 * time.Second
	DefaultJUnitPath          = "test-results/junit-results.xml"
)

// SuiteConfig holds the process-wide settings every scenario runs with.
type SuiteConfig struct {
	BaseURL  string
	Password string

	// DefaultTimeout bounds ordinary interactions and navigations.
	DefaultTimeout time.Duration
	// CheckoutTimeout bounds order placement after the shipping form is submitted.
	CheckoutTimeout time.Duration
	// GeolocationTimeout bounds offers content that waits on permission negotiation.
	GeolocationTimeout time.Duration

	Parallelism int
	Browser     string
	Headless    bool
	JUnitPath   string
}

// suiteFile mirrors the recognized keys of a YAML suite file.
type suiteFile struct {
	BaseURL              *string `yaml:"baseUrl"`
	Password             *string `yaml:"password"`
	TimeoutDefaultMs     *int    `yaml:"timeoutDefaultMs"`
	TimeoutCheckoutMs    *int    `yaml:"timeoutCheckoutMs"`
	TimeoutGeolocationMs *int    `yaml:"timeoutGeolocationMs"`
	Parallelism          *int    `yaml:"parallelism"`
	Browser              *string `yaml:"browser"`
	Headless             *bool   `yaml:"headless"`
	JUnitPath            *string `yaml:"junitPath"`
}

// DefaultSuiteConfig returns the configuration used when nothing is overridden.
func DefaultSuiteConfig() *SuiteConfig {
	return &SuiteConfig{
		BaseURL:            DefaultBaseURL,
		Password:           DefaultPassword,
		DefaultTimeout:     DefaultTimeout,
		CheckoutTimeout:    DefaultCheckoutTimeout,
		GeolocationTimeout: DefaultGeolocationTimeout,
		Parallelism:        1,
		Browser:            BrowserChromium,
		Headless:           true,
		JUnitPath:          DefaultJUnitPath,
	}
}

// LoadSuiteConfig builds the suite configuration from defaults, an optional
// YAML file at path, and SHOPCHECK_* variables read through getenv, in that
// order of precedence (later wins).
func LoadSuiteConfig(path string, getenv func(string) string) (*SuiteConfig, error) {
	cfg := DefaultSuiteConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read suite file: %w", err)
		}
		if err := cfg.applyYAML(data); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *SuiteConfig) applyYAML(data []byte) error {
	var f suiteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse suite file: %w", err)
	}

	if f.BaseURL != nil {
		c.BaseURL = *f.BaseURL
	}
	if f.Password != nil {
		c.Password = *f.Password
	}
	if f.TimeoutDefaultMs != nil {
		c.DefaultTimeout = time.Duration(*f.TimeoutDefaultMs) * time.Millisecond
	}
	if f.TimeoutCheckoutMs != nil {
		c.CheckoutTimeout = time.Duration(*f.TimeoutCheckoutMs) * time.Millisecond
	}
	if f.TimeoutGeolocationMs != nil {
		c.GeolocationTimeout = time.Duration(*f.TimeoutGeolocationMs) * time.Millisecond
	}
	if f.Parallelism != nil {
		c.Parallelism = *f.Parallelism
	}
	if f.Browser != nil {
		c.Browser = *f.Browser
	}
	if f.Headless != nil {
		c.Headless = *f.Headless
	}
	if f.JUnitPath != nil {
		c.JUnitPath = *f.JUnitPath
	}
	return nil
}

func (c *SuiteConfig) applyEnv(getenv func(string) string) error {
	if v := getenv("SHOPCHECK_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := getenv("SHOPCHECK_PASSWORD"); v != "" {
		c.Password = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SHOPCHECK_TIMEOUT_DEFAULT_MS", &c.DefaultTimeout},
		{"SHOPCHECK_TIMEOUT_CHECKOUT_MS", &c.CheckoutTimeout},
		{"SHOPCHECK_TIMEOUT_GEOLOCATION_MS", &c.GeolocationTimeout},
	}
	for _, d := range durations {
		v := getenv(d.key)
		if v == "" {
			continue
		}
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer number of milliseconds: %w", d.key, err)
		}
		*d.dst = time.Duration(ms) * time.Millisecond
	}

	if v := getenv("SHOPCHECK_PARALLELISM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SHOPCHECK_PARALLELISM must be an integer: %w", err)
		}
		c.Parallelism = n
	}
	if v := getenv("SHOPCHECK_BROWSER"); v != "" {
		c.Browser = strings.ToLower(v)
	}
	if v := getenv("SHOPCHECK_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SHOPCHECK_HEADLESS must be a boolean: %w", err)
		}
		c.Headless = b
	}
	if v := getenv("SHOPCHECK_JUNIT_PATH"); v != "" {
		c.JUnitPath = v
	}
	return nil
}

// Validate checks the configuration for values the runner cannot work with.
func (c *SuiteConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base URL is invalid: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base URL must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	if c.Password == "" {
		return fmt.Errorf("password is required")
	}
	if c.DefaultTimeout <= 0 {
		return fmt.Errorf("default timeout must be positive")
	}
	if c.CheckoutTimeout < c.DefaultTimeout {
		return fmt.Errorf("checkout timeout (%s) must not be shorter than the default timeout (%s)", c.CheckoutTimeout, c.DefaultTimeout)
	}
	if c.GeolocationTimeout < c.DefaultTimeout {
		return fmt.Errorf("geolocation timeout (%s) must not be shorter than the default timeout (%s)", c.GeolocationTimeout, c.DefaultTimeout)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism)
	}
	switch c.Browser {
	case BrowserChromium, BrowserFirefox, BrowserWebKit:
	default:
		return fmt.Errorf("unsupported browser %q", c.Browser)
	}
	return nil
}

// Milliseconds converts d to the float milliseconds Playwright expects.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
