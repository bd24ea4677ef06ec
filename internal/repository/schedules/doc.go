// Package schedules persists quiet-hours schedules.
//
// Loading never fails because of a single bad schedule: entries that cannot
// be decoded or that carry out-of-range fields are logged and skipped, and
// the remaining ones are returned in stored order.
package schedules
