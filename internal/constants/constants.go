// Package constants defines the constants used across hwsnap,
// and utility functions for the default config and cache paths.
package constants

import (
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// CmdName is the name of the command line tool.
	CmdName = "hwsnap"

	// DefaultAppFolder is the name of the default root folder.
	DefaultAppFolder = "hwsnap"

	// DefaultLogLevel is the default log level selected without any verbosity flags.
	DefaultLogLevel = slog.LevelInfo

	// SnapshotExt is the extension of snapshot files.
	SnapshotExt = ".json"

	// DefaultMaxSnapshots is the number of snapshots kept in the cache before the oldest are pruned.
	DefaultMaxSnapshots = 20
)

// Version is the version of the application.
var Version = "Dev"

type options struct {
	baseDir func() (string, error)
}

type option func(*options)

// GetDefaultConfigPath is the default path to the configuration file.
func GetDefaultConfigPath(opts ...option) string {
	o := options{baseDir: os.UserConfigDir}
	for _, opt := range opts {
		opt(&o)
	}

	return filepath.Join(getBaseDir(o.baseDir), DefaultAppFolder)
}

// GetDefaultCachePath is the default path to the snapshot cache directory.
func GetDefaultCachePath(opts ...option) string {
	o := options{baseDir: os.UserCacheDir}
	for _, opt := range opts {
		opt(&o)
	}

	return filepath.Join(getBaseDir(o.baseDir), DefaultAppFolder)
}

// getBaseDir is a helper function to handle the case where the baseDir function returns an error, and instead return an empty string.
func getBaseDir(baseDirFunc func() (string, error)) string {
	dir, err := baseDirFunc()
	if err != nil {
		return ""
	}
	return dir
}
