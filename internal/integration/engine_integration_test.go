package integration

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	api "github.com/oshokin/alert-override/internal/api/grpc/alert"
	"github.com/oshokin/alert-override/internal/config"
	"github.com/oshokin/alert-override/internal/domain/alert"
	"github.com/oshokin/alert-override/internal/repository/contacts"
	"github.com/oshokin/alert-override/internal/repository/settings"
	"github.com/oshokin/alert-override/internal/service/client"
	"github.com/oshokin/alert-override/internal/service/engine"
)

// environment is one running engine with its files.
type environment struct {
	configPath string
	cfg        *config.Config
}

// reservePort returns a free loopback address.
func reservePort(t *testing.T) string {
	t.Helper()

	lc := net.ListenConfig{}
	l, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// startEngine writes a config rooted in a temp dir, seeds Alice as an
// important contact and runs the engine until the test ends.
func startEngine(t *testing.T, driver string) *environment {
	t.Helper()

	dir := t.TempDir()
	env := &environment{
		configPath: filepath.Join(dir, "alert-override.yaml"),
		cfg: &config.Config{
			ServerAddress: reservePort(t),
			Timezone:      "UTC",
			Timeout:       3 * time.Second,
			ShutdownGrace: 10 * time.Millisecond,
			Storage: config.Storage{
				Driver:        driver,
				ContactsFile:  filepath.Join(dir, "contacts.json"),
				SchedulesFile: filepath.Join(dir, "schedules.json"),
				SQLitePath:    filepath.Join(dir, "alert-override.db"),
				SettingsFile:  filepath.Join(dir, "settings.yaml"),
			},
			Audio: config.Audio{
				ToneMode:    "none",
				RingerMode:  "silent",
				MediaVolume: 2,
			},
		},
	}

	require.NoError(t, config.Save(env.configPath, env.cfg))

	if driver == config.DriverFile {
		require.NoError(t, contacts.NewFileStore(env.cfg.Storage.ContactsFile).Save(context.Background(), []alert.Contact{
			{DisplayName: "Alice", RawNumber: "+1 555-123-4567"},
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- engine.Run(ctx, &engine.Options{ConfigPath: env.configPath})
	}()

	t.Cleanup(func() {
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("engine did not stop")
		}
	})

	return env
}

// report runs one client action with retries while the engine starts.
func (e *environment) report(t *testing.T, action client.Action) {
	t.Helper()

	require.NoError(t, client.Run(context.Background(), &client.Options{
		ConfigPath: e.configPath,
		Attempts:   20,
		Interval:   50 * time.Millisecond,
	}, action))
}

// TestEngine_ImportantCallBreaksThroughSilentMode reports a ringing call
// from Alice and observes the boosted media stream.
func TestEngine_ImportantCallBreaksThroughSilentMode(t *testing.T) {
	t.Parallel()

	env := startEngine(t, config.DriverFile)

	var verdict api.Verdict

	env.report(t, func(ctx context.Context, c *client.Client) error {
		var err error

		verdict, err = c.ReportCall(ctx, &api.CallReport{Number: "(555) 123-4567"})

		return err
	})

	require.Equal(t, "alert", verdict.Outcome)
	require.Equal(t, "Alice", verdict.Contact)
	require.Equal(t, "Important Call: Alice", verdict.Title)
	require.Equal(t, 15, verdict.Tones)
	require.Equal(t, 12500*time.Millisecond, verdict.RestoreDelay)

	// The boost runs on the engine's scheduler right after the verdict.
	deadline := time.Now().Add(3 * time.Second)

	for {
		var state api.AudioState

		env.report(t, func(ctx context.Context, c *client.Client) error {
			var err error

			state, err = c.GetAudioState(ctx)

			return err
		})

		if state.MediaVolume > 2 {
			require.Equal(t, "silent", state.RingerMode)

			break
		}

		require.True(t, time.Now().Before(deadline), "media stream was not boosted")
		time.Sleep(20 * time.Millisecond)
	}
}

// TestEngine_Suppressions covers the verdicts that leave the device alone.
func TestEngine_Suppressions(t *testing.T) {
	t.Parallel()

	env := startEngine(t, config.DriverFile)

	tests := []struct {
		name   string
		report *api.CallReport
		reason string
	}{
		{name: "stranger", report: &api.CallReport{Number: "+15559876543"}, reason: "not_important"},
		{name: "withheld", report: &api.CallReport{}, reason: "unknown_caller"},
	}

	for _, tt := range tests {
		var verdict api.Verdict

		env.report(t, func(ctx context.Context, c *client.Client) error {
			var err error

			verdict, err = c.ReportCall(ctx, tt.report)

			return err
		})

		require.Equal(t, "suppressed", verdict.Outcome, tt.name)
		require.Equal(t, tt.reason, verdict.Reason, tt.name)
		require.Empty(t, verdict.Title, tt.name)
	}

	// Settings are re-read per event, so switching the service off applies at once.
	disabled := alert.DefaultSettings()
	disabled.ServiceEnabled = false
	require.NoError(t, settings.NewFileStore(env.cfg.Storage.SettingsFile).Save(context.Background(), disabled))

	var verdict api.Verdict

	env.report(t, func(ctx context.Context, c *client.Client) error {
		var err error

		verdict, err = c.ReportSms(ctx, &api.SmsReport{Number: "5551234567", Body: "call me"})

		return err
	})

	require.Equal(t, "suppressed", verdict.Outcome)
	require.Equal(t, "disabled", verdict.Reason)
}

// TestEngine_SQLiteStorage starts with an empty database; nobody is important yet.
func TestEngine_SQLiteStorage(t *testing.T) {
	t.Parallel()

	env := startEngine(t, config.DriverSQLite)

	var verdict api.Verdict

	env.report(t, func(ctx context.Context, c *client.Client) error {
		var err error

		verdict, err = c.ReportSms(ctx, &api.SmsReport{Number: "5551234567", Body: "hi"})

		return err
	})

	require.Equal(t, "not_important", verdict.Reason)
}

// TestEngine_AudioControl sets and reads the device state remotely.
func TestEngine_AudioControl(t *testing.T) {
	t.Parallel()

	env := startEngine(t, config.DriverFile)

	var state api.AudioState

	env.report(t, func(ctx context.Context, c *client.Client) error {
		var err error

		state, err = c.SetAudioState(ctx, &api.AudioState{RingerMode: "vibrate", NotificationVolume: 4, MediaVolume: 7})

		return err
	})

	require.Equal(t, api.AudioState{RingerMode: "vibrate", NotificationVolume: 4, MediaVolume: 7, MaxVolume: 15}, state)
}
