package alert

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Recurrence describes how a quiet-hours schedule repeats.
type Recurrence string

const (
	// RecurrenceWeekly repeats on the selected days every week.
	RecurrenceWeekly Recurrence = "weekly"
	// RecurrenceCustom is a user-defined day selection; evaluated like weekly.
	RecurrenceCustom Recurrence = "custom"
)

const (
	// Sunday is the first day of the week in DaysOfWeek numbering.
	Sunday = 1
	// Saturday is the last day of the week in DaysOfWeek numbering.
	Saturday = 7

	minutesPerHour = 60
	hoursPerDay    = 24
)

// Schedule is a recurring quiet-hours window ("Church Mode").
type Schedule struct {
	// ID identifies the schedule across edits.
	ID uuid.UUID `json:"id"`
	// Name is shown in logs when the schedule suppresses an alert.
	Name string `json:"name"`
	// DaysOfWeek lists the days the window starts on, 1=Sunday through 7=Saturday.
	// An empty list never matches.
	DaysOfWeek []int `json:"daysOfWeek"`
	// StartHour and StartMinute open the window.
	StartHour   int `json:"startHour"`
	StartMinute int `json:"startMinute"`
	// EndHour and EndMinute close the window, inclusive.
	EndHour   int `json:"endHour"`
	EndMinute int `json:"endMinute"`
	// Recurrence is informational; both kinds evaluate the same way.
	Recurrence Recurrence `json:"recurrence"`
}

// StartMinutes returns the window start as minutes since midnight.
func (s *Schedule) StartMinutes() int {
	return s.StartHour*minutesPerHour + s.StartMinute
}

// EndMinutes returns the window end as minutes since midnight.
func (s *Schedule) EndMinutes() int {
	return s.EndHour*minutesPerHour + s.EndMinute
}

// CrossesMidnight reports whether the window wraps past 00:00.
// Equal start and end count as a full-day window.
func (s *Schedule) CrossesMidnight() bool {
	return s.EndMinutes() <= s.StartMinutes()
}

// HasDay reports whether day is one of the schedule's days.
func (s *Schedule) HasDay(day int) bool {
	return slices.Contains(s.DaysOfWeek, day)
}

// Window renders the window as "HH:MM - HH:MM".
func (s *Schedule) Window() string {
	return fmt.Sprintf("%02d:%02d - %02d:%02d", s.StartHour, s.StartMinute, s.EndHour, s.EndMinute)
}

// Validate checks field ranges of a decoded schedule.
func (s *Schedule) Validate() error {
	if !validClock(s.StartHour, s.StartMinute) {
		return fmt.Errorf("schedule %q start %02d:%02d: %w", s.Name, s.StartHour, s.StartMinute, ErrInvalidRecord)
	}

	if !validClock(s.EndHour, s.EndMinute) {
		return fmt.Errorf("schedule %q end %02d:%02d: %w", s.Name, s.EndHour, s.EndMinute, ErrInvalidRecord)
	}

	for _, day := range s.DaysOfWeek {
		if day < Sunday || day > Saturday {
			return fmt.Errorf("schedule %q day %d: %w", s.Name, day, ErrInvalidRecord)
		}
	}

	switch s.Recurrence {
	case RecurrenceWeekly, RecurrenceCustom:
	default:
		return fmt.Errorf("schedule %q recurrence %q: %w", s.Name, s.Recurrence, ErrInvalidRecord)
	}

	return nil
}

// Clone returns a copy that does not share the DaysOfWeek slice.
func (s *Schedule) Clone() Schedule {
	cloned := *s
	cloned.DaysOfWeek = slices.Clone(s.DaysOfWeek)

	return cloned
}

func validClock(hour, minute int) bool {
	return hour >= 0 && hour < hoursPerDay && minute >= 0 && minute < minutesPerHour
}

// Instant is a point in the week at minute resolution.
type Instant struct {
	// DayOfWeek is 1=Sunday through 7=Saturday.
	DayOfWeek int
	Hour      int
	Minute    int
}

// InstantOf converts a wall-clock time into an Instant in t's location.
func InstantOf(t time.Time) Instant {
	return Instant{
		DayOfWeek: int(t.Weekday()) + Sunday,
		Hour:      t.Hour(),
		Minute:    t.Minute(),
	}
}

// Minutes returns the instant as minutes since midnight.
func (i Instant) Minutes() int {
	return i.Hour*minutesPerHour + i.Minute
}

// String renders the instant as "day N HH:MM".
func (i Instant) String() string {
	return fmt.Sprintf("day %d %02d:%02d", i.DayOfWeek, i.Hour, i.Minute)
}
