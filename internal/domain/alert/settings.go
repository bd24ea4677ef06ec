package alert

import "time"

const (
	// DefaultVolumeLevel is the call boost level on the 1..10 scale.
	DefaultVolumeLevel = 8
	// DefaultBeepCount is the number of call tones.
	DefaultBeepCount = 15
	// DefaultSmsIntervalMs is the configured SMS tone spacing.
	DefaultSmsIntervalMs = 500
	// DefaultCallIntervalMs is the call tone spacing.
	DefaultCallIntervalMs = 600

	// SmsBeepDuration is the fixed length of a configured SMS tone.
	SmsBeepDuration = 400 * time.Millisecond
	// CallBeepDuration is the fixed length of a call tone.
	CallBeepDuration = 500 * time.Millisecond

	minVolumeLevel = 1
	maxVolumeLevel = 10
	minBeepCount   = 1
	maxBeepCount   = 20
	minIntervalMs  = 100
	maxIntervalMs  = 2000
)

// Settings are the user preferences read for every event.
type Settings struct {
	// ServiceEnabled switches the whole override off when false.
	ServiceEnabled bool `yaml:"service_enabled"`
	// VolumeLevel scales the call boost against the stream maximum, 1..10.
	VolumeLevel int `yaml:"volume_level"`
	// BeepCount is the number of call tones, 1..20.
	BeepCount int `yaml:"beep_count"`
	// SmsIntervalMs is the SMS tone spacing preference, 100..2000.
	SmsIntervalMs int `yaml:"sms_interval_ms"`
	// CallIntervalMs is the call tone spacing, 100..2000.
	CallIntervalMs int `yaml:"call_interval_ms"`
}

// DefaultSettings returns the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		ServiceEnabled: true,
		VolumeLevel:    DefaultVolumeLevel,
		BeepCount:      DefaultBeepCount,
		SmsIntervalMs:  DefaultSmsIntervalMs,
		CallIntervalMs: DefaultCallIntervalMs,
	}
}

// Clamped returns a copy with every numeric field forced into its range.
// A zero value means "unset" and takes the default instead of the minimum.
func (s Settings) Clamped() Settings {
	s.VolumeLevel = clamp(s.VolumeLevel, minVolumeLevel, maxVolumeLevel, DefaultVolumeLevel)
	s.BeepCount = clamp(s.BeepCount, minBeepCount, maxBeepCount, DefaultBeepCount)
	s.SmsIntervalMs = clamp(s.SmsIntervalMs, minIntervalMs, maxIntervalMs, DefaultSmsIntervalMs)
	s.CallIntervalMs = clamp(s.CallIntervalMs, minIntervalMs, maxIntervalMs, DefaultCallIntervalMs)

	return s
}

// CallInterval returns the call tone spacing as a duration.
func (s Settings) CallInterval() time.Duration {
	return time.Duration(s.CallIntervalMs) * time.Millisecond
}

// SmsInterval returns the SMS tone spacing preference as a duration.
func (s Settings) SmsInterval() time.Duration {
	return time.Duration(s.SmsIntervalMs) * time.Millisecond
}

func clamp(v, lo, hi, unset int) int {
	switch {
	case v == 0:
		return unset
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
