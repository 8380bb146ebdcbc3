// Package pipeline orchestrates one end-to-end library sync: load or fetch
// the saved-track snapshot, classify uncached labels in batches, aggregate
// rule and AI buckets, reconcile playlists, and record the run. A file lock
// on the data directory keeps runs single-writer.
package pipeline
