package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alert-override/internal/config"
	"github.com/oshokin/alert-override/internal/service/engine"
	"github.com/oshokin/alert-override/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// metricsAddress overrides the HTTP address from config.
	metricsAddress string

	// rootCmd represents the base command for running the engine.
	rootCmd = &cobra.Command{
		Use:   "alert-engine [listen-address]",
		Short: "Run the alert-override engine.",
		Long: `Starts the engine that decides whether a call or SMS from an important contact
may break through silent mode, and if so raises the media volume, beeps and restores
the audio state afterwards.

Events are reported over gRPC by alert-report. Listen address can be provided as argument
to override config (e.g., :50061, 127.0.0.1:50061). A missing configuration file means defaults.
Contacts, quiet-hours schedules and settings are re-read on every event.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return engine.Run(ctx, &engine.Options{
				ConfigPath:     configPath,
				ListenAddress:  listenAddress,
				MetricsAddress: metricsAddress,
			})
		},
	}
)

// Execute runs the alert-engine CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&metricsAddress, "metrics", "m", "", "address for /metrics and /healthz")
}
