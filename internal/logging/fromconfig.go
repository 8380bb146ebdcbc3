package logging

import (
	"log/slog"
	"path/filepath"

	"crate/internal/config"
)

// NewFromConfig builds the root logger from the configured logging section.
// Console output goes to stderr; a JSON or console copy is appended to
// crate.log in the log directory.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr", filepath.Join(cfg.Paths.LogDir, "crate.log")},
	})
}
