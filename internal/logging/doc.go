// Package logging wraps log/slog with crate's logger construction and
// standardized attribute helpers.
//
// Components obtain a child logger via NewComponentLogger so every record
// carries a stable "component" attribute. Recoverable problems log a warning
// with event_type, error_hint, and impact fields so operators can tell what
// degraded and what it cost.
package logging
