package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"crate/internal/logging"
)

// Snapshot persists fetched tracks so repeated runs skip the remote fetch.
// Absence or corruption is never an error; the caller refetches instead.
type Snapshot struct {
	path   string
	logger *slog.Logger
}

// NewSnapshot creates a snapshot store at path.
func NewSnapshot(path string, logger *slog.Logger) *Snapshot {
	return &Snapshot{
		path:   path,
		logger: logging.NewComponentLogger(logger, "library"),
	}
}

// Load returns the snapshotted tracks, or (nil, false) when no usable
// snapshot exists.
func (s *Snapshot) Load() ([]Track, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("failed to read track snapshot",
				logging.String(logging.FieldEventType, "snapshot_read_failed"),
				logging.Error(err),
				logging.String(logging.FieldImpact, "tracks will be refetched"))
		}
		return nil, false
	}

	var tracks []Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		s.logger.Warn("track snapshot is corrupt",
			logging.String(logging.FieldEventType, "snapshot_corrupt"),
			logging.Error(err),
			logging.String(logging.FieldImpact, "tracks will be refetched"))
		return nil, false
	}
	if len(tracks) == 0 {
		return nil, false
	}
	return tracks, true
}

// Save writes the snapshot atomically via a temp file and rename.
func (s *Snapshot) Save(tracks []Track) error {
	data, err := json.MarshalIndent(tracks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Remove deletes the snapshot file if present.
func (s *Snapshot) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	return nil
}
