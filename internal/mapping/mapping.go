// Package mapping manages the user-editable category to playlist-id override
// file. Overrides take precedence over name-based playlist lookup during
// reconciliation.
package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"crate/internal/services"
)

// Store is the persisted category -> playlist id mapping. A missing file is
// an empty mapping; a malformed file is a configuration error, since a
// half-read override set could silently rewrite the wrong playlists.
type Store struct {
	path    string
	entries map[string]string
}

// Open loads the mapping file at path.
func Open(path string) (*Store, error) {
	store := &Store{path: path, entries: make(map[string]string)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return store, nil
	}
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "mapping", "open", path, err)
	}
	if err := json.Unmarshal(data, &store.entries); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "mapping", "parse", path, err)
	}
	return store, nil
}

// Lookup returns the override playlist id for a category.
func (s *Store) Lookup(category string) (string, bool) {
	id, ok := s.entries[category]
	return id, ok
}

// Set records an override and persists the file.
func (s *Store) Set(category, playlistID string) error {
	category = strings.TrimSpace(category)
	playlistID = strings.TrimSpace(playlistID)
	if category == "" || playlistID == "" {
		return services.Wrap(services.ErrValidation, "mapping", "set", "category and playlist id required", nil)
	}
	s.entries[category] = playlistID
	return s.save()
}

// Remove deletes an override and persists the file. Removing an absent
// category is a no-op.
func (s *Store) Remove(category string) error {
	if _, ok := s.entries[category]; !ok {
		return nil
	}
	delete(s.entries, category)
	return s.save()
}

// Entry is one override row.
type Entry struct {
	Category   string
	PlaylistID string
}

// List returns all overrides sorted by category name.
func (s *Store) List() []Entry {
	entries := make([]Entry, 0, len(s.entries))
	for category, id := range s.entries {
		entries = append(entries, Entry{Category: category, PlaylistID: id})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Category < entries[j].Category })
	return entries
}

// Len returns the number of overrides.
func (s *Store) Len() int {
	return len(s.entries)
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create mapping directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write mapping: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace mapping: %w", err)
	}
	return nil
}
