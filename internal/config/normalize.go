package config

import (
	"fmt"
	"strings"
	"time"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSpotify()
	c.normalizeGemini()
	c.normalizeClassifier()
	c.normalizePlaylists()
	c.normalizeVocabulary()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSpotify() {
	c.Spotify.ClientID = strings.TrimSpace(c.Spotify.ClientID)
	c.Spotify.ClientSecret = strings.TrimSpace(c.Spotify.ClientSecret)
	c.Spotify.RefreshToken = strings.TrimSpace(c.Spotify.RefreshToken)
	c.Spotify.BaseURL = strings.TrimRight(strings.TrimSpace(c.Spotify.BaseURL), "/")
	if c.Spotify.BaseURL == "" {
		c.Spotify.BaseURL = defaultSpotifyBaseURL
	}
}

func (c *Config) normalizeGemini() {
	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	c.Gemini.BaseURL = strings.TrimRight(strings.TrimSpace(c.Gemini.BaseURL), "/")
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = defaultGeminiBaseURL
	}
	c.Gemini.Model = strings.TrimSpace(c.Gemini.Model)
	if c.Gemini.Model == "" {
		c.Gemini.Model = defaultGeminiModel
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		c.Gemini.TimeoutSeconds = defaultGeminiTimeoutSeconds
	}
}

func (c *Config) normalizeClassifier() {
	if c.Classifier.BatchSize <= 0 {
		c.Classifier.BatchSize = defaultBatchSize
	}
	if c.Classifier.MaxAttempts <= 0 {
		c.Classifier.MaxAttempts = defaultMaxAttempts
	}
	if c.Classifier.RetryDelaySeconds < 0 {
		c.Classifier.RetryDelaySeconds = defaultRetryDelaySeconds
	}
	if c.Classifier.BatchPauseSeconds < 0 {
		c.Classifier.BatchPauseSeconds = defaultBatchPauseSeconds
	}
	c.Classifier.FallbackCategory = strings.TrimSpace(c.Classifier.FallbackCategory)
	if c.Classifier.FallbackCategory == "" {
		c.Classifier.FallbackCategory = defaultFallbackCategory
	}
}

func (c *Config) normalizePlaylists() {
	c.Playlists.UnknownPolicy = strings.ToLower(strings.TrimSpace(c.Playlists.UnknownPolicy))
	if c.Playlists.UnknownPolicy == "" {
		c.Playlists.UnknownPolicy = defaultUnknownPolicy
	}
	c.Playlists.ExtrasName = strings.TrimSpace(c.Playlists.ExtrasName)
	if c.Playlists.ExtrasName == "" {
		c.Playlists.ExtrasName = defaultExtrasName
	}
}

func (c *Config) normalizeVocabulary() {
	genres := c.Genres[:0]
	for _, genre := range c.Genres {
		genre.Name = strings.TrimSpace(genre.Name)
		genre.Hint = strings.TrimSpace(genre.Hint)
		if genre.Name != "" {
			genres = append(genres, genre)
		}
	}
	c.Genres = genres

	currentYear := time.Now().Year()
	decades := c.Decades[:0]
	for _, interval := range c.Decades {
		interval.Name = strings.TrimSpace(interval.Name)
		if interval.Name == "" {
			continue
		}
		if interval.End == 0 {
			interval.End = currentYear
		}
		decades = append(decades, interval)
	}
	c.Decades = decades
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
