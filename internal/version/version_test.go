package version

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures Short and Full return non-empty consistent information.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())
}

// TestLogFields ensures build metadata comes out as complete key-value pairs.
func TestLogFields(t *testing.T) {
	t.Parallel()

	fields := LogFields()
	require.Len(t, fields, 6)
	require.Equal(t, "version", fields[0])
	require.Equal(t, Short(), fields[1])
}

// TestVersionCommand prints full or short build info.
func TestVersionCommand(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		args []string
		want string
	}{
		{name: "full", args: []string{"version"}, want: Full() + "\n"},
		{name: "short", args: []string{"version", "--short"}, want: Short() + "\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			root := &cobra.Command{Use: "alert-engine"}
			AttachCobraVersionCommand(root)

			var out bytes.Buffer

			root.SetOut(&out)
			root.SetArgs(tc.args)

			require.NoError(t, root.Execute())
			require.Equal(t, tc.want, out.String())
		})
	}
}
