package override

import (
	"time"

	"github.com/oshokin/alert-override/internal/domain/alert"
)

const (
	// MinBoostVolume is the lowest volume a boost ever sets.
	MinBoostVolume = 3
	// CallGracePeriod is added after the last call tone before restoring.
	CallGracePeriod = 3 * time.Second

	// SmsTones is the fixed tone count of the SMS path.
	SmsTones = 3
	// SmsToneDuration is the fixed tone length of the SMS path.
	SmsToneDuration = 800 * time.Millisecond
	// SmsToneInterval is the fixed tone spacing of the SMS path.
	SmsToneInterval = time.Second
	// SmsRestoreDelay is the fixed restore delay of the SMS path.
	SmsRestoreDelay = 10 * time.Second

	smsBoostNumerator   = 4
	smsBoostDenominator = 5
	callBoostScale      = 10
)

// Plan holds the path-specific parameters of one session.
type Plan struct {
	Kind alert.EventKind
	// Tones is the number of tones to emit.
	Tones int
	// Interval separates the start of consecutive tones.
	Interval time.Duration
	// ToneDuration is the length of each tone.
	ToneDuration time.Duration
	// RestoreDelay is measured from the start of the session.
	RestoreDelay time.Duration
	// BoostNumerator/BoostDenominator scale the media stream maximum.
	BoostNumerator   int
	BoostDenominator int
}

// CallPlan derives the call path from the user settings.
func CallPlan(settings alert.Settings) Plan {
	settings = settings.Clamped()
	interval := settings.CallInterval()

	return Plan{
		Kind:             alert.KindCall,
		Tones:            settings.BeepCount,
		Interval:         interval,
		ToneDuration:     alert.CallBeepDuration,
		RestoreDelay:     time.Duration(settings.BeepCount)*interval + alert.CallBeepDuration + CallGracePeriod,
		BoostNumerator:   settings.VolumeLevel,
		BoostDenominator: callBoostScale,
	}
}

// SmsPlan returns the fixed SMS path: three long tones and a fixed restore timer.
func SmsPlan() Plan {
	return Plan{
		Kind:             alert.KindSms,
		Tones:            SmsTones,
		Interval:         SmsToneInterval,
		ToneDuration:     SmsToneDuration,
		RestoreDelay:     SmsRestoreDelay,
		BoostNumerator:   smsBoostNumerator,
		BoostDenominator: smsBoostDenominator,
	}
}

// PlanFor picks the plan matching the event kind.
func PlanFor(kind alert.EventKind, settings alert.Settings) Plan {
	if kind == alert.KindSms {
		return SmsPlan()
	}

	return CallPlan(settings)
}

// BoostTarget returns the media volume a boost sets for the given maximum.
func (p Plan) BoostTarget(maxVolume int) int {
	denominator := p.BoostDenominator
	if denominator <= 0 {
		denominator = 1
	}

	return max(maxVolume*p.BoostNumerator/denominator, MinBoostVolume)
}

// ToneOffset returns when tone i (0-based) starts, relative to the session start.
func (p Plan) ToneOffset(i int) time.Duration {
	return time.Duration(i) * p.Interval
}
