// Package quiethours decides whether any quiet-hours schedule ("Church Mode")
// covers a given instant of the week.
//
// The day test uses the day being queried. A window that crosses midnight is
// therefore active before its end only on days that are themselves listed;
// the tail is not carried over to the following day.
package quiethours

import "github.com/oshokin/alert-override/internal/domain/alert"

// IsActive reports whether at least one schedule covers now.
func IsActive(schedules []alert.Schedule, now alert.Instant) bool {
	_, ok := ActiveSchedule(schedules, now)

	return ok
}

// ActiveSchedule returns the first schedule covering now.
func ActiveSchedule(schedules []alert.Schedule, now alert.Instant) (alert.Schedule, bool) {
	for i := range schedules {
		if Covers(&schedules[i], now) {
			return schedules[i], true
		}
	}

	return alert.Schedule{}, false
}

// Covers reports whether a single schedule covers now.
func Covers(s *alert.Schedule, now alert.Instant) bool {
	if !s.HasDay(now.DayOfWeek) {
		return false
	}

	var (
		current = now.Minutes()
		start   = s.StartMinutes()
		end     = s.EndMinutes()
	)

	if s.CrossesMidnight() {
		return current >= start || current <= end
	}

	return current >= start && current <= end
}
