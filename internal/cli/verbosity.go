package cli

import (
	"log/slog"

	"github.com/hwsnap/hwsnap/internal/constants"
)

// SetVerbosity sets the logging level for the default logger based on the verbose flag count.
//
// This function has the same behaviors as slog.SetLogLoggerLevel.
func SetVerbosity(level int) {
	switch level {
	case 0:
		slog.SetLogLoggerLevel(constants.DefaultLogLevel)
	case 1:
		slog.SetLogLoggerLevel(slog.LevelInfo)
	default:
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
}
