package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestLoadSuiteConfig_Defaults(t *testing.T) {
	// GIVEN no file and an empty environment
	// WHEN
	cfg, err := LoadSuiteConfig("", envMap(nil))

	// THEN
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultPassword, cfg.Password)
	assert.Equal(t, 10*time.Second, cfg.DefaultTimeout)
	assert.Equal(t, 15*time.Second, cfg.CheckoutTimeout)
	assert.Equal(t, 15*time.Second, cfg.GeolocationTimeout)
	assert.Equal(t, 1, cfg.Parallelism)
	assert.Equal(t, BrowserChromium, cfg.Browser)
	assert.True(t, cfg.Headless)
	assert.Equal(t, DefaultJUnitPath, cfg.JUnitPath)
}

func TestLoadSuiteConfig_FileThenEnv(t *testing.T) {
	// GIVEN a suite file and an environment overriding part of it
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yaml")
	content := `
baseUrl: http://localhost:8080/
password: from-file
timeoutDefaultMs: 2000
timeoutCheckoutMs: 9000
timeoutGeolocationMs: 4000
parallelism: 3
browser: firefox
headless: false
junitPath: out/report.xml
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	env := envMap(map[string]string{
		"SHOPCHECK_PASSWORD":            "from-env",
		"SHOPCHECK_TIMEOUT_CHECKOUT_MS": "12000",
		"SHOPCHECK_PARALLELISM":         "4",
	})

	// WHEN
	cfg, err := LoadSuiteConfig(path, env)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, "from-env", cfg.Password)
	assert.Equal(t, 2*time.Second, cfg.DefaultTimeout)
	assert.Equal(t, 12*time.Second, cfg.CheckoutTimeout)
	assert.Equal(t, 4*time.Second, cfg.GeolocationTimeout)
	assert.Equal(t, 4, cfg.Parallelism)
	assert.Equal(t, BrowserFirefox, cfg.Browser)
	assert.False(t, cfg.Headless)
	assert.Equal(t, "out/report.xml", cfg.JUnitPath)
}

func TestLoadSuiteConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"relative base URL", map[string]string{"SHOPCHECK_BASE_URL": "/signin"}},
		{"non-http base URL", map[string]string{"SHOPCHECK_BASE_URL": "ftp://example.com"}},
		{"non-numeric timeout", map[string]string{"SHOPCHECK_TIMEOUT_DEFAULT_MS": "soon"}},
		{"zero default timeout", map[string]string{"SHOPCHECK_TIMEOUT_DEFAULT_MS": "0"}},
		{"checkout shorter than default", map[string]string{"SHOPCHECK_TIMEOUT_CHECKOUT_MS": "1000"}},
		{"geolocation shorter than default", map[string]string{"SHOPCHECK_TIMEOUT_GEOLOCATION_MS": "1000"}},
		{"zero parallelism", map[string]string{"SHOPCHECK_PARALLELISM": "0"}},
		{"non-numeric parallelism", map[string]string{"SHOPCHECK_PARALLELISM": "many"}},
		{"unknown browser", map[string]string{"SHOPCHECK_BROWSER": "lynx"}},
		{"bad headless flag", map[string]string{"SHOPCHECK_HEADLESS": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadSuiteConfig("", envMap(tt.env))
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadSuiteConfig_MissingFile(t *testing.T) {
	_, err := LoadSuiteConfig(filepath.Join(t.TempDir(), "nope.yaml"), envMap(nil))
	assert.Error(t, err)
}

func TestLoadSuiteConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parallelism: [1, 2"), 0o600))

	_, err := LoadSuiteConfig(path, envMap(nil))
	assert.Error(t, err)
}

func TestMilliseconds(t *testing.T) {
	assert.Equal(t, float64(1500), Milliseconds(1500*time.Millisecond))
	assert.Equal(t, float64(0), Milliseconds(0))
}

func TestLoadPostgresConfig(t *testing.T) {
	full := map[string]string{
		"POSTGRES_USER":     "shop",
		"POSTGRES_PASSWORD": "secret",
		"POSTGRES_DB":       "history",
		"POSTGRES_HOSTNAME": "db",
	}

	cfg, err := LoadPostgresConfig(envMap(full))
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=shop password=secret dbname=history sslmode=disable", cfg.ConnectionString())

	for _, key := range []string{"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_HOSTNAME"} {
		t.Run("missing "+key, func(t *testing.T) {
			partial := map[string]string{}
			for k, v := range full {
				if k != key {
					partial[k] = v
				}
			}
			_, err := LoadPostgresConfig(envMap(partial))
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLoadServerConfig(t *testing.T) {
	assert.Equal(t, "8080", LoadServerConfig(envMap(nil)).Port)
	assert.Equal(t, "9000", LoadServerConfig(envMap(map[string]string{"PORT": "9000"})).Port)
}

func TestLoadArtifactConfig(t *testing.T) {
	_, err := LoadArtifactConfig(envMap(nil))
	assert.Error(t, err)

	cfg, err := LoadArtifactConfig(envMap(map[string]string{
		"SHOPCHECK_REPORT_BUCKET": "reports",
		"SHOPCHECK_S3_ENDPOINT":   "http://localhost:9000",
	}))
	require.NoError(t, err)
	assert.Equal(t, "shopcheck", cfg.Prefix)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.True(t, cfg.UsePathStyle)

	cfg, err = LoadArtifactConfig(envMap(map[string]string{
		"SHOPCHECK_REPORT_BUCKET": "reports",
	}))
	require.NoError(t, err)
	assert.False(t, cfg.UsePathStyle, "default AWS endpoint uses virtual-hosted addressing")
}
