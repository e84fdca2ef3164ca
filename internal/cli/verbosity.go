package cli

import (
	"log/slog"

	"github.com/unifi-tf/unifi-import-ids/internal/constants"
)

// SetVerbosity sets the logging level for the default logger based on the verbose flag count.
//
// This function has the same behaviors as slog.SetLogLoggerLevel.
func SetVerbosity(level int) {
	slog.SetLogLoggerLevel(getLevel(level))
}

func getLevel(level int) slog.Level {
	switch {
	case level <= 0:
		return constants.DefaultLogLevel
	case level == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
