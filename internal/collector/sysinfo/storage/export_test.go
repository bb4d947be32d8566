package storage

import (
	"log/slog"
	"time"
)

// WithLogger overrides the default logger.
func WithLogger(handler slog.Handler) Options {
	return func(o *options) {
		o.log = slog.New(handler)
	}
}

// WithMountTable overrides the default mount table command.
func WithMountTable(cmd []string) Options {
	return func(o *options) {
		o.mountCmd = cmd
	}
}

// WithDeviceList overrides the default valid device enumeration command.
func WithDeviceList(cmd []string) Options {
	return func(o *options) {
		o.devicesCmd = cmd
	}
}

// WithCounters overrides the default throughput counter command.
func WithCounters(cmd []string) Options {
	return func(o *options) {
		o.counterCmd = cmd
	}
}

// WithDiskGeometry overrides the default disk geometry listing command.
func WithDiskGeometry(cmd []string) Options {
	return func(o *options) {
		o.geomDiskCmd = cmd
	}
}

// WithPartGeometry overrides the default partition geometry listing command.
func WithPartGeometry(cmd []string) Options {
	return func(o *options) {
		o.geomPartCmd = cmd
	}
}

// WithPartitionStat overrides the default per-partition stat command.
func WithPartitionStat(cmd []string) Options {
	return func(o *options) {
		o.statCmd = cmd
	}
}

// WithTimeProvider overrides the clock stamping counter passes.
func WithTimeProvider(now func() time.Time) Options {
	return func(o *options) {
		o.now = now
	}
}

// WithPartitionMatcher overrides the partition sub-header rule.
func WithPartitionMatcher(m PartitionMatcher) Options {
	return func(o *options) {
		o.matchPartition = m
	}
}
