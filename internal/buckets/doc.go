// Package buckets merges rule-based and AI-based track assignments into
// named buckets ready for playlist reconciliation.
package buckets
