// Package history persists pipeline run records and per-category sync
// outcomes in a local SQLite database for the history command.
package history
