package config

import "time"

// RetentionConfig controls data retention and cleanup behavior.
type RetentionConfig struct {
	// PostRetentionDays is how many days to keep a fully-settled RawPost
	// (and its cascaded claim graph) before purging it.
	PostRetentionDays int `yaml:"post_retention_days"`

	// CleanupInterval is how often the cleanup loop runs.
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// DefaultRetentionConfig returns the built-in retention defaults.
func DefaultRetentionConfig() *RetentionConfig {
	return &RetentionConfig{
		PostRetentionDays: 365,
		CleanupInterval:   12 * time.Hour,
	}
}
