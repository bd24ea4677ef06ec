package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alert-override/internal/device/audio"
	"github.com/oshokin/alert-override/internal/device/tone"
	"github.com/oshokin/alert-override/internal/domain/alert"
	"github.com/oshokin/alert-override/internal/scheduler"
	"github.com/oshokin/alert-override/internal/service/decision"
	"github.com/oshokin/alert-override/internal/service/override"
)

var errStore = errors.New("store unavailable")

type contactStore struct {
	contacts []alert.Contact
	err      error
}

func (s contactStore) Load(context.Context) ([]alert.Contact, error) { return s.contacts, s.err }

type scheduleStore struct {
	schedules []alert.Schedule
	err       error
}

func (s scheduleStore) Load(context.Context) ([]alert.Schedule, error) { return s.schedules, s.err }

type settingsStore struct {
	settings alert.Settings
	err      error
}

func (s settingsStore) Load(context.Context) (alert.Settings, error) { return s.settings, s.err }

type sink struct {
	posted []alert.Notification
	err    error
}

func (s *sink) Post(_ context.Context, n alert.Notification) error {
	s.posted = append(s.posted, n)

	return s.err
}

type resolver map[string]string

func (r resolver) Lookup(_ context.Context, number string) (string, bool) {
	name, ok := r[number]

	return name, ok
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

// monday noon, 2026-10-12.
var mondayNoon = fixedClock(time.Date(2026, time.October, 12, 12, 0, 0, 0, time.UTC))

var alice = alert.Contact{DisplayName: "Alice", RawNumber: "+15551234567"}

type harness struct {
	clock     *scheduler.Manual
	device    *audio.Simulated
	emitter   *tone.Emitter
	sink      *sink
	contacts  contactStore
	schedules scheduleStore
	settings  settingsStore
	opts      []Option
}

func newHarness() *harness {
	emitter := tone.NewEmitter(tone.ModeNone)

	return &harness{
		clock:    scheduler.NewManual(),
		emitter:  emitter,
		device:   audio.NewSimulated(audio.State{RingerMode: alert.RingerSilent, MediaVolume: 5, MaxVolume: 15}, emitter),
		sink:     &sink{},
		contacts: contactStore{contacts: []alert.Contact{alice}},
		settings: settingsStore{settings: alert.DefaultSettings()},
		opts: []Option{
			WithClock(mondayNoon),
			WithLocation(time.UTC),
			WithIDGenerator(func() string { return "evt" }),
		},
	}
}

func (h *harness) build() *Orchestrator {
	return New(h.contacts, h.schedules, h.settings, h.sink,
		override.NewController(h.device, h.clock), h.opts...)
}

// TestOnCall_ImportantCallerWhileSilent runs the whole call flow end to end.
func TestOnCall_ImportantCallerWhileSilent(t *testing.T) {
	t.Parallel()

	h := newHarness()
	result := h.build().OnCall(context.Background(), CallEvent{State: CallRinging, Number: "5551234567"})

	require.Equal(t, "evt", result.EventID)
	require.True(t, result.Decision.Alerting())
	require.Equal(t, &alice, result.Decision.Contact)
	require.Equal(t, []alert.Notification{{
		EventID:  "evt",
		Title:    "Important Call: Alice",
		Body:     "Silent mode overridden for incoming call",
		Priority: alert.PriorityMax,
		Category: alert.CategoryCall,
	}}, h.sink.posted)

	// Nothing touches the device before the scheduler runs.
	require.Equal(t, 5, h.device.State().MediaVolume)
	require.NotNil(t, result.Session)

	h.clock.Advance(0)
	require.Equal(t, 12, h.device.State().MediaVolume)

	pending := h.clock.Pending()
	require.Len(t, pending, 15)
	require.Equal(t, 8400*time.Millisecond, pending[13])
	require.Equal(t, 12500*time.Millisecond, pending[14])

	h.clock.RunAll()
	require.Equal(t, 15, h.emitter.Count())
	require.Equal(t, 5, h.device.State().MediaVolume)
	require.Equal(t, override.StateDone, result.Session.State())
}

// TestOnCall_NotImportant suppresses unknown numbers without side effects.
func TestOnCall_NotImportant(t *testing.T) {
	t.Parallel()

	h := newHarness()
	result := h.build().OnCall(context.Background(), CallEvent{State: CallRinging, Number: "+44 20 7946 0000"})

	require.Equal(t, decision.ReasonNotImportant, result.Decision.Reason)
	require.Nil(t, result.Session)
	require.Nil(t, result.Notification)
	require.Empty(t, h.sink.posted)
	require.Zero(t, h.clock.Len())
}

// TestOnCall_WithheldNumber never alerts.
func TestOnCall_WithheldNumber(t *testing.T) {
	t.Parallel()

	h := newHarness()
	o := h.build()

	for _, number := range []string{"", "Private", "+"} {
		result := o.OnCall(context.Background(), CallEvent{State: CallRinging, Number: number})
		require.Equal(t, decision.ReasonUnknownCaller, result.Decision.Reason, number)
	}

	require.Empty(t, h.sink.posted)
	require.Zero(t, h.clock.Len())
}

// TestOnCall_OtherStates only logs idle and offhook transitions.
func TestOnCall_OtherStates(t *testing.T) {
	t.Parallel()

	h := newHarness()
	o := h.build()

	for _, state := range []CallState{CallIdle, CallOffhook} {
		result := o.OnCall(context.Background(), CallEvent{State: state, Number: "5551234567"})
		require.Equal(t, "evt", result.EventID)
		require.Empty(t, result.Decision.Outcome)
	}

	require.Empty(t, h.sink.posted)
	require.Zero(t, h.clock.Len())
}

// TestOnCall_QuietHours suppresses an important caller during a schedule.
func TestOnCall_QuietHours(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.schedules = scheduleStore{schedules: []alert.Schedule{{
		Name:       "Office",
		DaysOfWeek: []int{2},
		StartHour:  9,
		EndHour:    17,
		Recurrence: alert.RecurrenceWeekly,
	}}}

	result := h.build().OnCall(context.Background(), CallEvent{State: CallRinging, Number: "5551234567"})

	require.Equal(t, decision.ReasonQuietHours, result.Decision.Reason)
	require.Equal(t, "Office", result.Decision.Schedule.Name)
	require.Empty(t, h.sink.posted)
}

// TestOnCall_Disabled suppresses before matching.
func TestOnCall_Disabled(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.settings.settings.ServiceEnabled = false

	result := h.build().OnCall(context.Background(), CallEvent{State: CallRinging, Number: "5551234567"})

	require.Equal(t, decision.ReasonDisabled, result.Decision.Reason)
	require.Nil(t, result.Decision.Contact)
}

// TestOnCall_StoreFailures fail open toward alerting where possible.
func TestOnCall_StoreFailures(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.schedules = scheduleStore{err: errStore}
	h.settings = settingsStore{err: errStore}
	h.sink.err = errStore

	result := h.build().OnCall(context.Background(), CallEvent{State: CallRinging, Number: "5551234567"})

	require.True(t, result.Decision.Alerting())
	require.Equal(t, alert.DefaultSettings(), result.Decision.Settings)
	require.Len(t, h.sink.posted, 1)
	require.NotNil(t, result.Session)

	h = newHarness()
	h.contacts = contactStore{err: errStore}

	result = h.build().OnCall(context.Background(), CallEvent{State: CallRinging, Number: "5551234567"})
	require.Equal(t, decision.ReasonNotImportant, result.Decision.Reason)
}

// TestOnSms_ImportantSender uses the SMS texts and fixed timeline.
func TestOnSms_ImportantSender(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.opts = append(h.opts, WithNameResolver(resolver{"+15551234567": "Alice Cooper"}))

	body := strings.Repeat("a", 120)
	result := h.build().OnSms(context.Background(), SmsEvent{Number: "+1 555 123 4567", Body: body})

	require.True(t, result.Decision.Alerting())
	require.Equal(t, alert.Notification{
		EventID:  "evt",
		Title:    "Important SMS: Alice Cooper",
		Body:     strings.Repeat("a", 100) + "...",
		Priority: alert.PriorityMax,
		Category: alert.CategoryMessage,
	}, *result.Notification)

	h.clock.Advance(0)
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second, 10 * time.Second}, h.clock.Pending())

	h.clock.RunAll()
	require.Equal(t, 3, h.emitter.Count())
	require.Equal(t, 5, h.device.State().MediaVolume)
}

// TestNotification_DisplayNameFallback uses the raw number when nothing else is known.
func TestNotification_DisplayNameFallback(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.contacts = contactStore{contacts: []alert.Contact{{RawNumber: "555-0100"}}}

	result := h.build().OnSms(context.Background(), SmsEvent{Number: "5550100", Body: "short"})

	require.Equal(t, "Important SMS: 5550100", result.Notification.Title)
	require.Equal(t, "short", result.Notification.Body)
}

// TestPreview counts characters, not bytes.
func TestPreview(t *testing.T) {
	t.Parallel()

	exact := strings.Repeat("é", 100)
	require.Equal(t, exact, preview(exact))
	require.Equal(t, exact+"...", preview(exact+"ü"))
	require.Empty(t, preview(""))
}
