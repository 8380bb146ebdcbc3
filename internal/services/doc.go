// Package services defines shared error classification for crate's external
// integrations.
//
// Failures are tagged with one of the exported sentinel markers so callers can
// route them per the pipeline's failure policy: transient failures are retried
// and then degraded, permission failures trigger the reconciler's fallback
// ladder, configuration failures abort the run immediately.
package services
