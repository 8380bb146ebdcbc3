// Command crate sorts a saved music library into topical playlists. It
// combines a deterministic release-year rule with AI genre classification,
// caches results locally, and idempotently syncs the resulting buckets back
// to the streaming service.
package main
