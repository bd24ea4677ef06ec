package decision

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/alert-override/internal/domain/alert"
)

var (
	alice = alert.Contact{DisplayName: "Alice", RawNumber: "+15551234567"}

	sundayService = alert.Schedule{
		ID:         uuid.New(),
		Name:       "Sunday service",
		DaysOfWeek: []int{alert.Sunday},
		StartHour:  9,
		EndHour:    12,
		Recurrence: alert.RecurrenceWeekly,
	}

	sundayTen  = alert.Instant{DayOfWeek: alert.Sunday, Hour: 10}
	mondayNoon = alert.Instant{DayOfWeek: 2, Hour: 12}
)

func input(number string, settings alert.Settings, now alert.Instant) *Input {
	return &Input{
		Event:     alert.Event{ID: "e-1", Kind: alert.KindCall, Number: number},
		Contacts:  []alert.Contact{alice},
		Schedules: []alert.Schedule{sundayService},
		Settings:  settings,
		Now:       now,
	}
}

// TestDecide_Alert fires for an important contact outside quiet hours.
func TestDecide_Alert(t *testing.T) {
	t.Parallel()

	d := Decide(input("5551234567", alert.DefaultSettings(), mondayNoon))

	require.True(t, d.Alerting())
	require.Equal(t, ReasonNone, d.Reason)
	require.NotNil(t, d.Contact)
	require.Equal(t, "Alice", d.Contact.DisplayName)
	require.Nil(t, d.Schedule)
	require.Equal(t, alert.DefaultSettings(), d.Settings)
}

// TestDecide_DisabledWins suppresses regardless of contact and schedule state.
func TestDecide_DisabledWins(t *testing.T) {
	t.Parallel()

	settings := alert.DefaultSettings()
	settings.ServiceEnabled = false

	for _, number := range []string{"5551234567", "5550000000"} {
		for _, now := range []alert.Instant{sundayTen, mondayNoon} {
			d := Decide(input(number, settings, now))
			require.Equal(t, OutcomeSuppressed, d.Outcome)
			require.Equal(t, ReasonDisabled, d.Reason)
		}
	}
}

// TestDecide_NotImportant suppresses strangers.
func TestDecide_NotImportant(t *testing.T) {
	t.Parallel()

	d := Decide(input("5550000000", alert.DefaultSettings(), mondayNoon))
	require.False(t, d.Alerting())
	require.Equal(t, ReasonNotImportant, d.Reason)
	require.Nil(t, d.Contact)
}

// TestDecide_QuietHours suppresses even a matching important contact.
func TestDecide_QuietHours(t *testing.T) {
	t.Parallel()

	d := Decide(input("+1 555 123 4567", alert.DefaultSettings(), sundayTen))
	require.False(t, d.Alerting())
	require.Equal(t, ReasonQuietHours, d.Reason)
	require.NotNil(t, d.Schedule)
	require.Equal(t, "Sunday service", d.Schedule.Name)
}

// TestDecide_ClampsSettings hands clamped settings to the override.
func TestDecide_ClampsSettings(t *testing.T) {
	t.Parallel()

	settings := alert.DefaultSettings()
	settings.BeepCount = 99

	d := Decide(input("5551234567", settings, mondayNoon))
	require.True(t, d.Alerting())
	require.Equal(t, 20, d.Settings.BeepCount)
}

// TestUnknownCaller is unconditionally suppressed.
func TestUnknownCaller(t *testing.T) {
	t.Parallel()

	d := UnknownCaller(alert.Event{ID: "e-2", Kind: alert.KindCall})
	require.False(t, d.Alerting())
	require.Equal(t, ReasonUnknownCaller, d.Reason)
}
