package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/oshokin/alert-override/internal/config"
	"github.com/oshokin/alert-override/internal/logger"
	"github.com/oshokin/alert-override/internal/version"
)

// Options controls the alert-engine process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file; a missing file means defaults.
	ConfigPath string
	// ListenAddress overrides the gRPC address from config when specified.
	ListenAddress string
	// MetricsAddress overrides the HTTP address from config when specified.
	MetricsAddress string
}

// Run starts the engine and blocks until ctx is canceled or a listener fails.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alert-engine")

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	listenAddress := cfg.ServerAddress
	if opts.ListenAddress != "" {
		listenAddress = opts.ListenAddress
	}

	metricsAddress := cfg.MetricsAddress
	if opts.MetricsAddress != "" {
		metricsAddress = opts.MetricsAddress
	}

	app, err := New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialise engine: %w", err)
	}

	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.WarnKV(ctx, "Failed to release engine resources", "error", closeErr)
		}
	}()

	lc := net.ListenConfig{}

	grpcListener, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	var httpListener net.Listener

	if metricsAddress != "" {
		httpListener, err = lc.Listen(ctx, "tcp", metricsAddress)
		if err != nil {
			_ = grpcListener.Close()

			return fmt.Errorf("listen on %s: %w", metricsAddress, err)
		}
	}

	logger.InfoKV(ctx, "Alert engine listening", append([]any{
		"listen_address", listenAddress,
		"metrics_address", metricsAddress,
		"storage_driver", cfg.Storage.Driver,
		"tone_mode", cfg.Audio.ToneMode,
	}, version.LogFields()...)...)

	return app.Serve(ctx, grpcListener, httpListener)
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
