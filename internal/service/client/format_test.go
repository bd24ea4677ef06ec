package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	api "github.com/oshokin/alert-override/internal/api/grpc/alert"
)

// TestFormatVerdict renders alerting and suppressed verdicts.
func TestFormatVerdict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verdict api.Verdict
		want    string
	}{
		{
			name: "alert",
			verdict: api.Verdict{
				EventID:      "evt-1",
				Outcome:      "alert",
				Contact:      "Alice",
				Title:        "Important Call: Alice",
				Tones:        15,
				RestoreDelay: 12500 * time.Millisecond,
			},
			want: `alert, contact Alice, posted "Important Call: Alice", 15 tones, restore after 12.5s [event evt-1]`,
		},
		{
			name: "quiet hours",
			verdict: api.Verdict{
				Outcome:  "suppressed",
				Reason:   "quiet_hours",
				Contact:  "Alice",
				Schedule: "Church",
				Window:   "09:00 - 12:00",
			},
			want: `suppressed (quiet_hours), contact Alice, schedule "Church" 09:00 - 12:00`,
		},
		{
			name:    "unknown caller",
			verdict: api.Verdict{Outcome: "suppressed", Reason: "unknown_caller"},
			want:    "suppressed (unknown_caller)",
		},
		{
			name:    "idle call",
			verdict: api.Verdict{EventID: "evt-2"},
			want:    "ignored [event evt-2]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, FormatVerdict(&tt.verdict))
		})
	}
}

// TestFormatAudioState shows levels against the maximum.
func TestFormatAudioState(t *testing.T) {
	t.Parallel()

	got := FormatAudioState(&api.AudioState{RingerMode: "silent", NotificationVolume: 0, MediaVolume: 3, MaxVolume: 15})
	require.Equal(t, "ringer=silent notification=0/15 media=3/15", got)
}
