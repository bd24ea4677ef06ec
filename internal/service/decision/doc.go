// Package decision composes the service switch, contact matching and
// quiet-hours evaluation into a single alert-or-suppress verdict.
//
// Decide is a pure function of its inputs and safe for concurrent use.
package decision
