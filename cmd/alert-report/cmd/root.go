package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alert-override/internal/config"
	"github.com/oshokin/alert-override/internal/service/client"
	"github.com/oshokin/alert-override/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides the engine address from config.
	serverAddress string
	// attempts bounds retries while the engine is unavailable.
	attempts int

	// rootCmd represents the base command for reporting events.
	rootCmd = &cobra.Command{
		Use:   "alert-report",
		Short: "Report calls and messages to the alert-override engine.",
		Long: `Reports telephony events to a running alert-engine and prints its verdict.

Use "call" for call-state transitions, "sms" for delivered messages and "audio"
to inspect or change the simulated device. Requests are retried while the engine
is unavailable. Server address is loaded from configuration file unless --server is set.`,
		SilenceUsage: true,
	}
)

// Execute runs the alert-report CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run performs action against the engine with the shared flags.
func run(action client.Action) error {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	return client.Run(ctx, &client.Options{
		ConfigPath:    cfgPath,
		ServerAddress: serverAddress,
		Attempts:      attempts,
	}, action)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVarP(&serverAddress, "server", "s", "", "engine address, overrides config")
	flags.IntVarP(&attempts, "attempts", "a", client.DefaultAttempts, "tries while the engine is unavailable")
}
