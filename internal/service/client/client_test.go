package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	api "github.com/oshokin/alert-override/internal/api/grpc/alert"
	"github.com/oshokin/alert-override/internal/config"
)

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)
}

// TestClient_callContext checks timeout vs cancel-only behavior and the reporter header.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	_, ok := ctx.Deadline()
	require.False(t, ok)

	c.callTimeout = 10 * time.Millisecond
	c.reporter = "alice@phone"

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	require.Equal(t, []string{"alice@phone"}, md.Get("x-alert-reporter"))
}

// TestDetectReporter ensures username and hostname are detected.
func TestDetectReporter(t *testing.T) {
	t.Parallel()

	reporter, err := DetectReporter()
	require.NoError(t, err)

	user, host, ok := strings.Cut(reporter, "@")
	require.True(t, ok)
	require.NotEmpty(t, user)
	require.NotEmpty(t, host)
}

// TestRun_RetriesUnavailable retries only while the engine is unreachable.
func TestRun_RetriesUnavailable(t *testing.T) {
	t.Parallel()

	opts := &Options{
		ConfigPath: filepath.Join(t.TempDir(), "absent.yaml"),
		Attempts:   3,
		Interval:   time.Millisecond,
	}

	var calls int

	err := Run(context.Background(), opts, func(context.Context, *Client) error {
		calls++

		return fmt.Errorf("report call: %w", status.Error(codes.Unavailable, "connection refused"))
	})
	require.Equal(t, codes.Unavailable, status.Code(err))
	require.Equal(t, 3, calls)

	calls = 0
	errFatal := errors.New("bad request")

	err = Run(context.Background(), opts, func(context.Context, *Client) error {
		calls++

		return errFatal
	})
	require.ErrorIs(t, err, errFatal)
	require.Equal(t, 1, calls)
}

// TestRun_ReportsAreNotRetried tries a report once even when the engine drops the connection.
func TestRun_ReportsAreNotRetried(t *testing.T) {
	t.Parallel()

	opts := &Options{
		ConfigPath: filepath.Join(t.TempDir(), "absent.yaml"),
		Attempts:   3,
		Interval:   time.Millisecond,
	}

	var calls int

	err := Run(context.Background(), opts, func(context.Context, *Client) error {
		calls++

		return fmt.Errorf("report sms: %w: %w", errMaybeDelivered, status.Error(codes.Unavailable, "connection reset"))
	})
	require.Equal(t, codes.Unavailable, status.Code(err))
	require.Equal(t, 1, calls)
}

// TestClient_ReportWaitsForEngine waits out the call timeout instead of failing fast.
func TestClient_ReportWaitsForEngine(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "127.0.0.1:1", WithCallTimeout(50*time.Millisecond))
	require.NoError(t, err)

	t.Cleanup(func() { _ = c.Close() })

	_, err = c.ReportSms(context.Background(), &api.SmsReport{Number: "+15551234567", Body: "hi"})
	require.ErrorIs(t, err, errMaybeDelivered)
	require.Equal(t, codes.DeadlineExceeded, status.Code(err))
	require.False(t, retryable(err))
}

// TestRun_InvalidConfig stops before dialing.
func TestRun_InvalidConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alert-override.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), config.DefaultFilePermissions))

	err := Run(context.Background(), &Options{ConfigPath: path}, func(context.Context, *Client) error {
		t.Fatal("action must not run")

		return nil
	})
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}
