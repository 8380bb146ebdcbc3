package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSpotify(); err != nil {
		return err
	}
	if err := c.validateGemini(); err != nil {
		return err
	}
	if err := c.validateClassifier(); err != nil {
		return err
	}
	if err := c.validatePlaylists(); err != nil {
		return err
	}
	if err := c.validateVocabulary(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSpotify() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/crate/config.toml"
		}
		return fmt.Errorf("spotify.client_id and spotify.client_secret are required. Edit %s (create with 'crate config init')", defaultPath)
	}
	if c.Spotify.RefreshToken == "" {
		return errors.New("spotify.refresh_token is required; complete the authorization flow once and store the refresh token")
	}
	return nil
}

func (c *Config) validateGemini() error {
	if c.Gemini.APIKey == "" {
		return errors.New("gemini.api_key is required")
	}
	return nil
}

func (c *Config) validateClassifier() error {
	if c.Classifier.BatchSize > 50 {
		return errors.New("classifier.batch_size must be at most 50")
	}
	found := false
	for _, genre := range c.Genres {
		if genre.Name == c.Classifier.FallbackCategory {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("classifier.fallback_category %q is not in the genre vocabulary", c.Classifier.FallbackCategory)
	}
	return nil
}

func (c *Config) validatePlaylists() error {
	switch c.Playlists.UnknownPolicy {
	case "extras", "discard":
		return nil
	default:
		return fmt.Errorf("playlists.unknown_policy must be \"extras\" or \"discard\", got %q", c.Playlists.UnknownPolicy)
	}
}

func (c *Config) validateVocabulary() error {
	if len(c.Genres) == 0 {
		return errors.New("at least one [[genres]] entry is required")
	}
	seen := make(map[string]struct{}, len(c.Genres)+len(c.Decades))
	for _, genre := range c.Genres {
		if _, dup := seen[genre.Name]; dup {
			return fmt.Errorf("duplicate category name %q", genre.Name)
		}
		seen[genre.Name] = struct{}{}
	}
	for _, interval := range c.Decades {
		if _, dup := seen[interval.Name]; dup {
			return fmt.Errorf("duplicate category name %q", interval.Name)
		}
		seen[interval.Name] = struct{}{}
		if interval.End < interval.Start {
			return fmt.Errorf("decade %q has end year %d before start year %d", interval.Name, interval.End, interval.Start)
		}
	}
	return nil
}
