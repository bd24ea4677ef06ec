package alert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseLegacyContact covers the "Name|Number" import form.
func TestParseLegacyContact(t *testing.T) {
	t.Parallel()

	c, err := ParseLegacyContact("Alice|+1 (555) 123-4567")
	require.NoError(t, err)
	require.Equal(t, Contact{DisplayName: "Alice", RawNumber: "+1 (555) 123-4567"}, c)

	_, err = ParseLegacyContact("no separator")
	require.ErrorIs(t, err, ErrInvalidRecord)

	_, err = ParseLegacyContact("Bob| ")
	require.ErrorIs(t, err, ErrInvalidRecord)
}

// TestContactValidate rejects contacts without a number.
func TestContactValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Contact{RawNumber: "5551234567"}.Validate())
	require.ErrorIs(t, Contact{DisplayName: "Nobody"}.Validate(), ErrInvalidRecord)
}
