package sysinfo

import (
	"log/slog"

	"github.com/hwsnap/hwsnap/internal/collector/sysinfo/filesystem"
	"github.com/hwsnap/hwsnap/internal/collector/sysinfo/storage"
)

// WithStorageCollector overrides the default storage collector.
func WithStorageCollector(c CollectorT[storage.Info]) Options {
	return func(o *options) {
		o.storage = c
	}
}

// WithFilesystemCollector overrides the default filesystem collector.
func WithFilesystemCollector(c CollectorT[filesystem.Info]) Options {
	return func(o *options) {
		o.filesystem = c
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger slog.Handler) Options {
	return func(o *options) {
		o.log = slog.New(logger)
	}
}
