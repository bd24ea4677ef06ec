package alert

import (
	"fmt"
	"strings"
)

// RingerMode mirrors the platform ringer setting.
type RingerMode int

const (
	// RingerSilent mutes ring and notification sounds.
	RingerSilent RingerMode = iota
	// RingerVibrate vibrates instead of ringing.
	RingerVibrate
	// RingerNormal rings audibly.
	RingerNormal
)

// String returns the lowercase mode name.
func (m RingerMode) String() string {
	switch m {
	case RingerSilent:
		return "silent"
	case RingerVibrate:
		return "vibrate"
	case RingerNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// ParseRingerMode converts a lowercase mode name back into a RingerMode.
func ParseRingerMode(name string) (RingerMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "silent":
		return RingerSilent, nil
	case "vibrate":
		return RingerVibrate, nil
	case "normal":
		return RingerNormal, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRingerMode, name)
	}
}

// Stream is an audio output channel of the device.
type Stream string

const (
	// StreamNotification carries notification sounds; volume 0 means "muted".
	StreamNotification Stream = "notification"
	// StreamMedia carries the override tones and is the one that gets boosted.
	StreamMedia Stream = "media"
)

// AudioSnapshot is the audio state captured before an override session.
// It is never modified after capture.
type AudioSnapshot struct {
	RingerMode         RingerMode
	NotificationVolume int
	MediaVolume        int
	EventID            string
}

// Muted reports whether the device looks silenced, which is the only case
// in which the media stream gets boosted.
func (s AudioSnapshot) Muted() bool {
	return s.NotificationVolume == 0
}
