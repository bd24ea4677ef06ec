package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	api "github.com/oshokin/alert-override/internal/api/grpc/alert"
	"github.com/oshokin/alert-override/internal/service/client"
)

var (
	// callState is the reported telephony state.
	callState string
	// unknownCaller reports a ringing call without caller ID.
	unknownCaller bool

	errNumberRequired = errors.New("a number is required unless --unknown is set")

	callCmd = &cobra.Command{
		Use:   "call [number]",
		Short: "Report a call-state transition.",
		Long: `Reports an incoming call. Without --state the call is ringing.
Use --unknown for a call with withheld caller ID, which is never alerted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report := &api.CallReport{State: callState}

			switch {
			case len(args) > 0:
				report.Number = args[0]
			case !unknownCaller && (callState == "" || callState == "ringing"):
				return errNumberRequired
			}

			return run(func(ctx context.Context, c *client.Client) error {
				verdict, err := c.ReportCall(ctx, report)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), client.FormatVerdict(&verdict))

				return err
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	callCmd.Flags().StringVar(&callState, "state", "", "ringing, offhook or idle")
	callCmd.Flags().BoolVar(&unknownCaller, "unknown", false, "report a ringing call without caller ID")

	rootCmd.AddCommand(callCmd)
}
