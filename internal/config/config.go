package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Spotify contains credentials for the source library and playlist service.
type Spotify struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
	BaseURL      string `toml:"base_url"`
}

// Gemini contains connection settings for the AI classification service.
type Gemini struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Classifier contains batching and retry settings for AI classification.
type Classifier struct {
	// BatchSize is the number of track labels sent per request. Sized to
	// stay under the service's per-minute request and token budget.
	BatchSize int `toml:"batch_size"`
	// MaxAttempts bounds retries for a single batch.
	MaxAttempts int `toml:"max_attempts"`
	// RetryDelaySeconds is the base delay between attempts; the delay grows
	// linearly with the attempt number.
	RetryDelaySeconds int `toml:"retry_delay_seconds"`
	// BatchPauseSeconds is the minimum pause between batch requests.
	BatchPauseSeconds int `toml:"batch_pause_seconds"`
	// FallbackCategory receives tracks the AI could not classify. Must be a
	// member of the genre vocabulary.
	FallbackCategory string `toml:"fallback_category"`
}

// RetryDelay returns the base retry delay as a duration.
func (c Classifier) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// Playlists contains policy for the remote playlists crate manages.
type Playlists struct {
	Public      bool   `toml:"public"`
	Description string `toml:"description"`
	// UnknownPolicy decides what happens to cached categories that are no
	// longer in the vocabulary: "extras" collects them into ExtrasName,
	// "discard" drops them (counted and logged, never silent).
	UnknownPolicy string `toml:"unknown_policy"`
	ExtrasName    string `toml:"extras_name"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Category is one entry of the genre vocabulary. The hint is included in the
// classifier prompt to describe what belongs in the category.
type Category struct {
	Name string `toml:"name"`
	Hint string `toml:"hint"`
}

// Interval is one entry of the year-rule table. Bounds are inclusive; an End
// of 0 means "through the current year". Table order is authoritative when
// intervals overlap.
type Interval struct {
	Name  string `toml:"name"`
	Start int    `toml:"start"`
	End   int    `toml:"end"`
}

// Config encapsulates all configuration values for crate.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories
//   - Spotify: source library credentials
//   - Gemini: AI classification service connection
//   - Classifier: batching, retry, and fallback policy
//   - Playlists: visibility and unknown-category policy
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
//   - Genres / Decades: the category vocabulary and year-rule table
type Config struct {
	Paths         Paths         `toml:"paths"`
	Spotify       Spotify       `toml:"spotify"`
	Gemini        Gemini        `toml:"gemini"`
	Classifier    Classifier    `toml:"classifier"`
	Playlists     Playlists     `toml:"playlists"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
	Genres        []Category    `toml:"genres"`
	Decades       []Interval    `toml:"decades"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/crate/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg, resolvedPath, exists, err := LoadUnvalidated(path)
	if err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return cfg, resolvedPath, exists, nil
}

// LoadUnvalidated parses and normalizes the configuration without running
// Validate. Inspection commands use it so an incomplete config can still be
// displayed.
func LoadUnvalidated(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("crate.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// WriteSample writes the embedded sample configuration to path. Unless
// overwrite is set, an existing file is left untouched and an error returned.
func WriteSample(path string, overwrite bool) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		if !overwrite {
			return fmt.Errorf("config file already exists at %s", expanded)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the data and log directories when missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// CachePath returns the classification cache file location.
func (c *Config) CachePath() string {
	return filepath.Join(c.Paths.DataDir, "classifications.json")
}

// TracksPath returns the saved-track snapshot location.
func (c *Config) TracksPath() string {
	return filepath.Join(c.Paths.DataDir, "tracks.json")
}

// MappingPath returns the category-to-playlist override file location.
func (c *Config) MappingPath() string {
	return filepath.Join(c.Paths.DataDir, "playlists.json")
}

// HistoryPath returns the run history database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.DataDir, "history.db")
}

// LockPath returns the single-writer pipeline lock location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "crate.lock")
}

// GenreNames returns the vocabulary names in table order.
func (c *Config) GenreNames() []string {
	names := make([]string, 0, len(c.Genres))
	for _, genre := range c.Genres {
		names = append(names, genre.Name)
	}
	return names
}

// ExpandPath resolves ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			trimmed = home
		} else if strings.HasPrefix(trimmed, "~/") {
			trimmed = filepath.Join(home, trimmed[2:])
		} else {
			return "", fmt.Errorf("unsupported home-relative path %q", path)
		}
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}
