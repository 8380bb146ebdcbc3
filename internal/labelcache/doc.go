// Package labelcache persists AI classification results across runs.
//
// # Storage
//
// The cache is a single JSON object file mapping "Artist - Title" display
// labels to category lists (default: <data_dir>/classifications.json). The
// format is human-readable and safe to inspect or edit.
//
// # Failure behaviour
//
// A missing or corrupt file never fails the caller: the cache starts empty
// and a warning is logged. Writes go through a temp file and rename, so a
// crash mid-write leaves either the old or the new content intact.
//
// CLI commands for inspection and management:
//
//	crate cache list    # Show cached classifications
//	crate cache clear   # Forget all classifications
package labelcache
