package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/alert-override/internal/domain/alert"
	"github.com/oshokin/alert-override/internal/logger"
	"github.com/oshokin/alert-override/internal/metrics"
	"github.com/oshokin/alert-override/internal/phone"
	"github.com/oshokin/alert-override/internal/service/decision"
	"github.com/oshokin/alert-override/internal/service/override"
)

// ContactStore lists the important contacts.
type ContactStore interface {
	Load(ctx context.Context) ([]alert.Contact, error)
}

// ScheduleStore lists the quiet-hours schedules, skipping malformed ones.
type ScheduleStore interface {
	Load(ctx context.Context) ([]alert.Schedule, error)
}

// SettingsStore returns the user settings with defaults filled in.
type SettingsStore interface {
	Load(ctx context.Context) (alert.Settings, error)
}

// NotificationSink shows a notification to the user.
type NotificationSink interface {
	Post(ctx context.Context, notification alert.Notification) error
}

// NameResolver finds a display name for a normalized number.
type NameResolver interface {
	Lookup(ctx context.Context, number string) (string, bool)
}

// Clock tells the current time.
type Clock interface {
	Now() time.Time
}

// Overrider starts override sessions.
type Overrider interface {
	Start(ctx context.Context, eventID string, plan override.Plan) *override.Session
}

// CallState is the telephony state reported with a call event.
type CallState string

const (
	// CallRinging is an incoming call that has not been answered.
	CallRinging CallState = "ringing"
	// CallOffhook is an answered or outgoing call.
	CallOffhook CallState = "offhook"
	// CallIdle means no call is in progress.
	CallIdle CallState = "idle"
)

// CallEvent is one call-state transition.
type CallEvent struct {
	State CallState
	// Number is the caller ID; empty when withheld or unavailable.
	Number string
}

// SmsEvent is one delivered text message.
type SmsEvent struct {
	Number string
	Body   string
}

// Result reports what the orchestrator did with an event.
type Result struct {
	EventID  string
	Decision decision.Decision
	// Notification is the posted notification; nil unless alerting.
	Notification *alert.Notification
	// Session is the started override; nil unless alerting.
	Session *override.Session
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Orchestrator sequences decision, notification and override.
type Orchestrator struct {
	contacts  ContactStore
	schedules ScheduleStore
	settings  SettingsStore
	sink      NotificationSink
	overrider Overrider

	resolver NameResolver
	clock    Clock
	location *time.Location
	newID    func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithNameResolver sets the resolver used for notification titles.
func WithNameResolver(r NameResolver) Option {
	return func(o *Orchestrator) {
		o.resolver = r
	}
}

// WithClock overrides the system clock.
func WithClock(c Clock) Option {
	return func(o *Orchestrator) {
		o.clock = c
	}
}

// WithLocation sets the time zone schedules are evaluated in; local time by default.
func WithLocation(loc *time.Location) Option {
	return func(o *Orchestrator) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithIDGenerator overrides the random UUID event IDs.
func WithIDGenerator(newID func() string) Option {
	return func(o *Orchestrator) {
		o.newID = newID
	}
}

// New wires an orchestrator.
func New(
	contacts ContactStore,
	schedules ScheduleStore,
	settings SettingsStore,
	sink NotificationSink,
	overrider Overrider,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		contacts:  contacts,
		schedules: schedules,
		settings:  settings,
		sink:      sink,
		overrider: overrider,
		clock:     systemClock{},
		location:  time.Local,
		newID:     uuid.NewString,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// OnCall handles a call-state transition. Only ringing calls can alert;
// other states are logged.
func (o *Orchestrator) OnCall(ctx context.Context, event CallEvent) Result {
	id := o.newID()
	ctx = logger.WithFields(logger.WithName(ctx, "orchestrator"), "event_id", id, "kind", alert.KindCall)

	switch event.State {
	case CallRinging:
	case CallIdle:
		o.OnCallEnded(ctx)

		return Result{EventID: id}
	default:
		logger.DebugKV(ctx, "Ignoring call state", "state", event.State)

		return Result{EventID: id}
	}

	evt := alert.Event{ID: id, Kind: alert.KindCall, Number: event.Number}

	if phone.Normalize(event.Number) == "" {
		d := decision.UnknownCaller(evt)
		o.record(ctx, &d)

		return Result{EventID: id, Decision: d}
	}

	return o.handle(ctx, evt)
}

// OnCallEnded records that the line went idle. In-flight sessions finish on
// their own timers.
func (o *Orchestrator) OnCallEnded(ctx context.Context) {
	logger.Debug(ctx, "Call ended")
}

// OnSms handles a delivered text message.
func (o *Orchestrator) OnSms(ctx context.Context, event SmsEvent) Result {
	id := o.newID()
	ctx = logger.WithFields(logger.WithName(ctx, "orchestrator"), "event_id", id, "kind", alert.KindSms)

	return o.handle(ctx, alert.Event{
		ID:     id,
		Kind:   alert.KindSms,
		Number: event.Number,
		Body:   event.Body,
	})
}

func (o *Orchestrator) handle(ctx context.Context, event alert.Event) Result {
	now := o.clock.Now().In(o.location)

	in := decision.Input{
		Event:     event,
		Contacts:  o.loadContacts(ctx),
		Schedules: o.loadSchedules(ctx),
		Settings:  o.loadSettings(ctx),
		Now:       alert.InstantOf(now),
	}

	d := decision.Decide(&in)
	o.record(ctx, &d)

	result := Result{EventID: event.ID, Decision: d}

	if !d.Alerting() {
		return result
	}

	notification := o.notification(ctx, &d)
	if err := o.sink.Post(ctx, notification); err != nil {
		metrics.RecordDeviceError("notify")
		logger.WarnKV(ctx, "Posting notification failed", "error", err)
	}

	result.Notification = &notification
	result.Session = o.overrider.Start(ctx, event.ID, override.PlanFor(event.Kind, d.Settings))

	return result
}

func (o *Orchestrator) record(ctx context.Context, d *decision.Decision) {
	metrics.RecordDecision(string(d.Event.Kind), string(d.Outcome), string(d.Reason))

	kvs := []any{"outcome", d.Outcome, "number", d.Event.Number}

	if d.Reason != decision.ReasonNone {
		kvs = append(kvs, "reason", d.Reason)
	}

	if d.Schedule != nil {
		kvs = append(kvs, "schedule", d.Schedule.Name, "window", d.Schedule.Window())
	}

	if d.Alerting() {
		logger.InfoKV(ctx, "Alerting", kvs...)

		return
	}

	logger.InfoKV(ctx, "Alert suppressed", kvs...)
}

func (o *Orchestrator) loadContacts(ctx context.Context) []alert.Contact {
	contacts, err := o.contacts.Load(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Loading contacts failed, treating list as empty", "error", err)

		return nil
	}

	return contacts
}

func (o *Orchestrator) loadSchedules(ctx context.Context) []alert.Schedule {
	schedules, err := o.schedules.Load(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Loading schedules failed, quiet hours off", "error", err)

		return nil
	}

	return schedules
}

func (o *Orchestrator) loadSettings(ctx context.Context) alert.Settings {
	settings, err := o.settings.Load(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Loading settings failed, using defaults", "error", err)

		return alert.DefaultSettings()
	}

	return settings
}
