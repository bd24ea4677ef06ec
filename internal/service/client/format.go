package client

import (
	"fmt"
	"strings"

	api "github.com/oshokin/alert-override/internal/api/grpc/alert"
)

// outcomeIgnored is shown for call states that are not decided on.
const outcomeIgnored = "ignored"

// FormatVerdict renders a verdict as one human-readable line.
func FormatVerdict(v *api.Verdict) string {
	var b strings.Builder

	if v.Outcome == "" {
		b.WriteString(outcomeIgnored)
	} else {
		b.WriteString(v.Outcome)
	}

	if v.Reason != "" {
		fmt.Fprintf(&b, " (%s)", v.Reason)
	}

	if v.Contact != "" {
		fmt.Fprintf(&b, ", contact %s", v.Contact)
	}

	if v.Schedule != "" {
		fmt.Fprintf(&b, ", schedule %q %s", v.Schedule, v.Window)
	}

	if v.Title != "" {
		fmt.Fprintf(&b, ", posted %q", v.Title)
	}

	if v.Tones > 0 {
		fmt.Fprintf(&b, ", %d tones, restore after %s", v.Tones, v.RestoreDelay)
	}

	if v.EventID != "" {
		fmt.Fprintf(&b, " [event %s]", v.EventID)
	}

	return b.String()
}

// FormatAudioState renders a device state as one line.
func FormatAudioState(s *api.AudioState) string {
	return fmt.Sprintf("ringer=%s notification=%d/%d media=%d/%d",
		s.RingerMode, s.NotificationVolume, s.MaxVolume, s.MediaVolume, s.MaxVolume)
}
