package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oshokin/alert-override/internal/config"
	"github.com/oshokin/alert-override/internal/logger"
)

// Options configures one alert-report invocation.
type Options struct {
	// ConfigPath to YAML settings file; a missing file means defaults.
	ConfigPath string
	// ServerAddress overrides the server address from config when specified.
	ServerAddress string
	// Attempts bounds the number of tries; zero means DefaultAttempts.
	Attempts int
	// Interval separates tries; zero means DefaultRetryInterval.
	Interval time.Duration
}

const (
	// DefaultAttempts is the number of tries before giving up.
	DefaultAttempts = 5
	// DefaultRetryInterval is the delay between tries.
	DefaultRetryInterval = time.Second
)

// Action is one exchange with the engine.
type Action func(ctx context.Context, client *Client) error

// Run connects to the engine and performs action, retrying while the engine
// is unavailable. Any other error, or a failed report, ends the run at once.
func Run(ctx context.Context, opts *Options, action Action) error {
	ctx = logger.WithName(ctx, "alert-report")

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	clientOptions := []Option{WithCallTimeout(cfg.Timeout)}

	if reporter, detectErr := DetectReporter(); detectErr == nil {
		clientOptions = append(clientOptions, WithReporter(reporter))
	}

	client, err := Dial(ctx, serverAddress, clientOptions...)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		err = action(ctx, client)
		if err == nil || !retryable(err) || attempt >= attempts {
			return err
		}

		logger.WarnKV(ctx, "Engine unavailable, retrying",
			"server_address", serverAddress,
			"attempt", attempt,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// loadConfig reads the config file, falling back to defaults when it is absent.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}

	return nil, fmt.Errorf("load config: %w", err)
}

// retryable reports whether err means the engine could not be reached and
// nothing was sent.
func retryable(err error) bool {
	return status.Code(err) == codes.Unavailable && !errors.Is(err, errMaybeDelivered)
}
