package extract

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ResolveInput returns explicit if set. Otherwise, it returns the first regular file
// matching patterns, tried in order. Matches of a single pattern are sorted.
//
// ErrMissingInput is returned when nothing matches.
func ResolveInput(explicit string, patterns []string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return "", fmt.Errorf("invalid search pattern %q: %v", p, err)
		}
		for _, m := range matches {
			fi, err := os.Stat(m)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
			slog.Info("Found input file", "path", m, "pattern", p)
			return m, nil
		}
	}

	return "", fmt.Errorf("%w: none specified and none found in %v", ErrMissingInput, patterns)
}
