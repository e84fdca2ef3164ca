package testutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// UpdateGoldenEnv is the environment variable which, when set, refreshes the golden files.
const UpdateGoldenEnv = "UNIFI_IMPORT_IDS_UPDATE_GOLDEN"

// GoldenPath returns the golden file path of the current test, under testdata/golden.
// Subtests are nested directories.
func GoldenPath(t *testing.T) string {
	t.Helper()

	parts := strings.Split(t.Name(), "/")
	return filepath.Join(append([]string{"testdata", "golden"}, parts...)...)
}

// LoadWithUpdateFromGolden returns the content of the golden file of the current test.
// When UpdateGoldenEnv is set, got is written to the golden file first.
func LoadWithUpdateFromGolden(t *testing.T, got string) string {
	t.Helper()

	p := GoldenPath(t)
	if os.Getenv(UpdateGoldenEnv) != "" {
		t.Logf("Updating golden file %s", p)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0750), "Cannot create golden directory")
		require.NoError(t, os.WriteFile(p, []byte(got), 0600), "Cannot write golden file")
	}

	want, err := os.ReadFile(p)
	require.NoError(t, err, "Cannot load golden file %s", p)

	// Normalize content between Windows and Linux
	return strings.ReplaceAll(string(want), "\r\n", "\n")
}
