package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	api "github.com/oshokin/alert-override/internal/api/grpc/alert"
	"github.com/oshokin/alert-override/internal/service/client"
)

var smsCmd = &cobra.Command{
	Use:   "sms <number> [body...]",
	Short: "Report a delivered message.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report := &api.SmsReport{
			Number: args[0],
			Body:   strings.Join(args[1:], " "),
		}

		return run(func(ctx context.Context, c *client.Client) error {
			verdict, err := c.ReportSms(ctx, report)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), client.FormatVerdict(&verdict))

			return err
		})
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(smsCmd)
}
