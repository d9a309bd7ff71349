package config

import "fmt"

// ArtifactConfig holds settings for publishing reports to S3-compatible storage
type ArtifactConfig struct {
	Bucket          string
	Prefix          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// LoadArtifactConfig loads report publishing configuration. A missing bucket
// is an error: callers only load this when publishing was requested.
func LoadArtifactConfig(getenv func(string) string) (*ArtifactConfig, error) {
	cfg := &ArtifactConfig{
		Bucket:          getenv("SHOPCHECK_REPORT_BUCKET"),
		Prefix:          getenv("SHOPCHECK_REPORT_PREFIX"),
		Endpoint:        getenv("SHOPCHECK_S3_ENDPOINT"),
		Region:          getenv("SHOPCHECK_S3_REGION"),
		AccessKeyID:     getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: getenv("AWS_SECRET_ACCESS_KEY"),
	}

	if cfg.Bucket == "" {
		return nil, fmt.Errorf("SHOPCHECK_REPORT_BUCKET is required")
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "shopcheck"
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	// Custom endpoints (MinIO, gofakes3, Tigris) generally need path-style addressing.
	cfg.UsePathStyle = cfg.Endpoint != "" && getenv("SHOPCHECK_S3_VIRTUAL_HOST") != "true"

	return cfg, nil
}
