// Package config loads, normalizes, and validates crate's TOML configuration.
//
// The configured genre vocabulary and decade intervals are the single source
// of truth for every classification component; they are loaded once per run
// and passed explicitly, never read from globals.
package config
