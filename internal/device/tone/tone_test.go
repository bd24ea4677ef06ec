package tone

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestCommand picks the platform command and formats the duration.
func TestCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{
			goos:     "linux",
			wantName: "play",
			wantArgs: []string{"-q", "-n", "synth", "0.500", "sine", "880"},
		},
		{
			goos:     "darwin",
			wantName: "afplay",
			wantArgs: []string{"-t", "0.500", "/System/Library/Sounds/Ping.aiff"},
		},
		{
			goos:     "windows",
			wantName: "powershell.exe",
			wantArgs: []string{"-NoProfile", "-Command", "[console]::beep(880,500)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			t.Parallel()

			name, args, err := Command(tt.goos, 500*time.Millisecond)
			require.NoError(t, err)
			require.Equal(t, tt.wantName, name)
			require.Equal(t, tt.wantArgs, args)
		})
	}
}

// TestCommand_Unsupported rejects unknown platforms.
func TestCommand_Unsupported(t *testing.T) {
	t.Parallel()

	_, _, err := Command("plan9", time.Second)
	require.ErrorIs(t, err, ErrUnsupportedOS)
}

// TestParseMode accepts the known modes and defaults to none.
func TestParseMode(t *testing.T) {
	t.Parallel()

	mode, err := ParseMode(" Bell ")
	require.NoError(t, err)
	require.Equal(t, ModeBell, mode)

	mode, err = ParseMode("")
	require.NoError(t, err)
	require.Equal(t, ModeNone, mode)

	_, err = ParseMode("trumpet")
	require.ErrorIs(t, err, ErrUnknownMode)
}

// TestEmitter_Bell writes one bell per tone and counts them.
func TestEmitter_Bell(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	e := NewEmitter(ModeBell, WithBellWriter(&buf))

	require.NoError(t, e.Emit(context.Background(), time.Millisecond))
	require.NoError(t, e.Emit(context.Background(), time.Millisecond))
	require.Equal(t, "\a\a", buf.String())
	require.Equal(t, 2, e.Count())
}

// TestEmitter_CommandUnsupported reports the platform error without counting.
func TestEmitter_CommandUnsupported(t *testing.T) {
	t.Parallel()

	e := NewEmitter(ModeCommand, WithGOOS("plan9"))

	require.ErrorIs(t, e.Emit(context.Background(), time.Millisecond), ErrUnsupportedOS)
	require.Zero(t, e.Count())
	e.Wait()
}
