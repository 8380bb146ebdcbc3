// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"testing"

	"crate/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with a unique temp data directory per
// test and placeholder credentials that pass validation.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Spotify.ClientID = "test-client"
	cfg.Spotify.ClientSecret = "test-secret"
	cfg.Spotify.RefreshToken = "test-refresh"
	cfg.Gemini.APIKey = "test-key"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithGenres replaces the genre vocabulary.
func WithGenres(genres ...config.Category) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Genres = genres
	}
}

// WithDecades replaces the year-interval table.
func WithDecades(decades ...config.Interval) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Decades = decades
	}
}

// WithFallback sets the classifier fallback category.
func WithFallback(name string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Classifier.FallbackCategory = name
	}
}
