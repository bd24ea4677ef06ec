// Package scheduler runs delayed callbacks on one logical timeline.
//
// Loop executes every callback on a single goroutine in due-time order, so
// callbacks of different override sessions interleave but never overlap.
// Manual implements the same contract over virtual time for tests and dry runs.
package scheduler
