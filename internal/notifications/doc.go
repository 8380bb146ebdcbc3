// Package notifications sends optional push notifications for pipeline
// lifecycle events.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. The pipeline depends only on the Service interface, so alternative
// transports slot in without touching orchestration code.
package notifications
