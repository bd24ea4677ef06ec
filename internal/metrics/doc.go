// Package metrics exposes Prometheus counters for decisions, override
// sessions, tones, device failures and skipped store records.
//
// Label values are normalized to a fixed set so that malformed input cannot
// blow up series cardinality.
package metrics
