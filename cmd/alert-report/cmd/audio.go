package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/alert-override/internal/service/client"
)

var (
	ringerMode         string
	notificationVolume int
	mediaVolume        int

	audioCmd = &cobra.Command{
		Use:   "audio",
		Short: "Inspect or change the engine's audio device.",
	}

	audioGetCmd = &cobra.Command{
		Use:   "get",
		Short: "Print the ringer mode and stream volumes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(func(ctx context.Context, c *client.Client) error {
				state, err := c.GetAudioState(ctx)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), client.FormatAudioState(&state))

				return err
			})
		},
	}

	audioSetCmd = &cobra.Command{
		Use:   "set",
		Short: "Change the ringer mode or stream volumes; unset flags keep their value.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()

			return run(func(ctx context.Context, c *client.Client) error {
				state, err := c.GetAudioState(ctx)
				if err != nil {
					return err
				}

				if flags.Changed("ringer") {
					state.RingerMode = ringerMode
				}

				if flags.Changed("notification") {
					state.NotificationVolume = notificationVolume
				}

				if flags.Changed("media") {
					state.MediaVolume = mediaVolume
				}

				state, err = c.SetAudioState(ctx, &state)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), client.FormatAudioState(&state))

				return err
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	audioSetCmd.Flags().StringVar(&ringerMode, "ringer", "", "silent, vibrate or normal")
	audioSetCmd.Flags().IntVar(&notificationVolume, "notification", 0, "notification stream volume")
	audioSetCmd.Flags().IntVar(&mediaVolume, "media", 0, "media stream volume")

	audioCmd.AddCommand(audioGetCmd, audioSetCmd)
	rootCmd.AddCommand(audioCmd)
}
