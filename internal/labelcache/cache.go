package labelcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"crate/internal/logging"
)

// Cache provides thread-safe access to the persistent label-to-categories
// store. It is the single source of truth for "has this label already been
// classified": an entry present in the cache is never re-sent to the remote
// classifier.
type Cache struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string][]string
}

// Open loads the cache at path. A missing or corrupt file degrades to an
// empty cache with a warning; Open never fails for those cases.
func Open(path string, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "labelcache")

	c := &Cache{
		path:    path,
		logger:  logger,
		entries: make(map[string][]string),
	}

	if err := c.load(); err != nil {
		logger.Warn("failed to load classification cache",
			logging.String(logging.FieldEventType, "labelcache_load_failed"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "cache will start empty"),
			logging.String(logging.FieldImpact, "previously classified tracks will be re-sent to the classifier"))
	}

	return c
}

// Lookup returns the cached categories for a label.
func (c *Cache) Lookup(label string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	categories, found := c.entries[label]
	if !found {
		return nil, false
	}
	copied := make([]string, len(categories))
	copy(copied, categories)
	return copied, true
}

// Partition splits labels into cached and missing, preserving input order.
func (c *Cache) Partition(labels []string) (cached, missing []string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, label := range labels {
		if _, found := c.entries[label]; found {
			cached = append(cached, label)
		} else {
			missing = append(missing, label)
		}
	}
	return cached, missing
}

// Subset returns the cached entries for the given labels.
func (c *Cache) Subset(labels []string) map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string][]string, len(labels))
	for _, label := range labels {
		if categories, found := c.entries[label]; found {
			copied := make([]string, len(categories))
			copy(copied, categories)
			result[label] = copied
		}
	}
	return result
}

// Merge adds or overwrites entries and persists the cache. Entries are only
// ever added or replaced, never deleted by a merge, so the cache grows
// monotonically across runs.
func (c *Cache) Merge(partial map[string][]string) error {
	if len(partial) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for label, categories := range partial {
		label = strings.TrimSpace(label)
		if label == "" || len(categories) == 0 {
			continue
		}
		copied := make([]string, len(categories))
		copy(copied, categories)
		c.entries[label] = copied
	}

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("merged classification results",
		logging.Int("merged", len(partial)),
		logging.Int("total", len(c.entries)))
	return nil
}

// All returns a copy of every cached entry.
func (c *Cache) All() map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string][]string, len(c.entries))
	for label, categories := range c.entries {
		copied := make([]string, len(categories))
		copy(copied, categories)
		result[label] = copied
	}
	return result
}

// Count returns the number of cached labels.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries and persists the empty cache.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string][]string)
	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	return nil
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // fresh start
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries map[string][]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.entries = make(map[string][]string, len(entries))
	for label, categories := range entries {
		if strings.TrimSpace(label) != "" && len(categories) > 0 {
			c.entries[label] = categories
		}
	}

	c.logger.Debug("loaded classification cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))
	return nil
}

// save writes the cache to disk atomically. Caller holds the write lock.
// MarshalIndent sorts map keys, so the file is deterministic and diffable.
func (c *Cache) save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
