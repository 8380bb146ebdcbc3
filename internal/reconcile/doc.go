// Package reconcile applies computed track buckets to the user's remote
// playlists. Resolution per category walks a fallback ladder (override id,
// exact-name match, create, create disambiguated) and playlist contents are
// always fully replaced so the operation is idempotent. Permission failures
// discard a single candidate, never the run.
package reconcile
