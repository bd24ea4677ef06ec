package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AttachCobraVersionCommand adds a `version` subcommand to root. It prints the
// full build info, or only the semantic version with --short.
func AttachCobraVersionCommand(root *cobra.Command) {
	var short bool

	command := &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Long:  "Print the version, commit hash and build timestamp injected from the Git state at build time.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			line := Full()
			if short {
				line = Short()
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
		},
	}

	command.Flags().BoolVar(&short, "short", false, "print only the semantic version")
	root.AddCommand(command)
}
