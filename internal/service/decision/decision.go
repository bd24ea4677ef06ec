package decision

import (
	"github.com/oshokin/alert-override/internal/domain/alert"
	"github.com/oshokin/alert-override/internal/phone"
	"github.com/oshokin/alert-override/internal/quiethours"
)

// Outcome is the verdict for one event.
type Outcome string

const (
	// OutcomeAlert means the override should run.
	OutcomeAlert Outcome = "alert"
	// OutcomeSuppressed means nothing but a diagnostic record happens.
	OutcomeSuppressed Outcome = "suppressed"
)

// Reason explains a suppression. Empty for alerts.
type Reason string

const (
	// ReasonNone accompanies OutcomeAlert.
	ReasonNone Reason = ""
	// ReasonDisabled means the service switch is off.
	ReasonDisabled Reason = "disabled"
	// ReasonNotImportant means the number is not on the allow-list.
	ReasonNotImportant Reason = "not_important"
	// ReasonQuietHours means a schedule is active.
	ReasonQuietHours Reason = "quiet_hours"
	// ReasonUnknownCaller means caller ID was withheld; decided before Decide runs.
	ReasonUnknownCaller Reason = "unknown_caller"
)

// Decision is the verdict together with what produced it.
type Decision struct {
	Outcome Outcome
	Reason  Reason
	// Event is the evaluated event.
	Event alert.Event
	// Settings are the clamped settings the override must use.
	Settings alert.Settings
	// Contact is the matched allow-list entry, set once matching succeeded.
	Contact *alert.Contact
	// Schedule is the schedule that caused ReasonQuietHours.
	Schedule *alert.Schedule
}

// Alerting reports whether the override should run.
func (d *Decision) Alerting() bool {
	return d.Outcome == OutcomeAlert
}

// Input bundles the snapshot of state a decision is taken against.
type Input struct {
	Event     alert.Event
	Contacts  []alert.Contact
	Schedules []alert.Schedule
	Settings  alert.Settings
	Now       alert.Instant
}

// Decide applies, in order: service switch, allow-list, quiet hours.
func Decide(in *Input) Decision {
	settings := in.Settings.Clamped()

	d := Decision{
		Outcome:  OutcomeSuppressed,
		Event:    in.Event,
		Settings: settings,
	}

	if !settings.ServiceEnabled {
		d.Reason = ReasonDisabled

		return d
	}

	contact, ok := phone.Match(in.Event.Number, in.Contacts)
	if !ok {
		d.Reason = ReasonNotImportant

		return d
	}

	d.Contact = &contact

	if schedule, active := quiethours.ActiveSchedule(in.Schedules, in.Now); active {
		d.Reason = ReasonQuietHours
		d.Schedule = &schedule

		return d
	}

	d.Outcome = OutcomeAlert
	d.Reason = ReasonNone

	return d
}

// UnknownCaller is the fixed verdict for a ringing call without caller ID.
func UnknownCaller(event alert.Event) Decision {
	return Decision{
		Outcome: OutcomeSuppressed,
		Reason:  ReasonUnknownCaller,
		Event:   event,
	}
}
