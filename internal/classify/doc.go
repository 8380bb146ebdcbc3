// Package classify batches unclassified track labels through the external AI
// classifier. It partitions labels against the persistent cache, dispatches
// fixed-size batches with rate-limited pacing, validates and repairs the
// model's output against the configured vocabulary, and merges results into
// the cache after every batch so partial progress survives interruption.
package classify
