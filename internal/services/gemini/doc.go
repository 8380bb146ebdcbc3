// Package gemini provides the Google Gemini client used for genre
// classification.
//
// # Request shape
//
// Each batch request sends a system instruction describing the category
// vocabulary and output schema, plus a numbered list of "Artist - Title"
// labels, asking for a JSON array of {track, categories[]} objects with
// responseMimeType application/json.
//
// # Retry behaviour
//
// The client retries on HTTP 408/429/5xx, network timeouts, and unparsable
// output, with a linearly growing delay (Retry-After is honored when
// present). Attempts are bounded; exhaustion returns an error tagged
// services.ErrTransient so the classification engine can degrade the batch
// to the fallback category instead of aborting the run.
//
// # Output tolerance
//
// DecodeModelJSON strips code fences and surrounding prose before parsing,
// and batch payloads are accepted both as the requested object array and as
// a flat label-to-categories object. Category lists are truncated to a small
// fixed maximum before validation.
package gemini
