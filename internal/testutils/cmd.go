// Package testutils provides helper functions for testing
package testutils

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// FlagCase describes an expected command line flag.
type FlagCase struct {
	Name       string
	Short      string
	Default    string
	Persistent bool
}

// AssertFlag checks that cmd declares the flag described by want.
func AssertFlag(t *testing.T, cmd *cobra.Command, want FlagCase) {
	t.Helper()

	flags := cmd.Flags()
	if want.Persistent {
		flags = cmd.PersistentFlags()
	}

	f := flags.Lookup(want.Name)
	require.NotNil(t, f, "Flag %q should be declared", want.Name)
	require.Equal(t, want.Short, f.Shorthand, "Unexpected shorthand for flag %q", want.Name)
	require.Equal(t, want.Default, f.DefValue, "Unexpected default value for flag %q", want.Name)
}
