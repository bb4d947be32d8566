// Package collector is the implementation of the collector component.
// The collector component is responsible for collecting system information,
// compiling it into a snapshot, and then writing the snapshot to disk.
package collector

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hwsnap/hwsnap/internal/collector/sysinfo"
	"github.com/hwsnap/hwsnap/internal/constants"
	"github.com/hwsnap/hwsnap/internal/fileutils"
	"github.com/hwsnap/hwsnap/internal/report"
	"github.com/ubuntu/decorate"
)

// Snapshot contains the point-in-time inventory compiled by the collector.
type Snapshot struct {
	SnapshotVersion string       `json:"snapshotVersion"`
	ID              string       `json:"id"`
	CollectedAt     int64        `json:"collectedAt"`
	SysInfo         sysinfo.Info `json:"systemInfo"`
}

type timeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}

// SysInfo is an interface for collecting system information.
type SysInfo interface {
	Collect() (sysinfo.Info, error)
}

// Collector is an abstraction of the collector component.
type Collector struct {
	dryRun   bool
	cacheDir string

	maxSnapshots int
	time         time.Time
	newID        func() string
	sysInfo      SysInfo
}

type options struct {
	// Private members exported for tests.
	maxSnapshots int
	timeProvider timeProvider
	newID        func() string
	sysInfo      SysInfo
}

var defaultOptions = options{
	maxSnapshots: constants.DefaultMaxSnapshots,
	timeProvider: realTimeProvider{},
	newID:        uuid.NewString,
	sysInfo:      sysinfo.New(),
}

// Options represents an optional function to override Collector default values.
type Options func(*options)

// WithMaxSnapshots sets the maximum number of snapshots to keep.
func WithMaxSnapshots(maxSnapshots int) Options {
	return func(o *options) {
		o.maxSnapshots = maxSnapshots
	}
}

// New returns a new Collector.
//
// The internal time used for naming snapshots is the current time at the
// moment of creation of the Collector.
func New(cachePath string, dryRun bool, args ...Options) (Collector, error) {
	slog.Debug("Creating new collector", "cachePath", cachePath, "dryRun", dryRun)

	if cachePath == "" {
		return Collector{}, fmt.Errorf("cache path cannot be an empty string")
	}

	opts := defaultOptions
	for _, opt := range args {
		opt(&opts)
	}

	return Collector{
		dryRun:   dryRun,
		cacheDir: cachePath,

		maxSnapshots: opts.maxSnapshots,
		time:         opts.timeProvider.Now(),
		newID:        opts.newID,
		sysInfo:      opts.sysInfo,
	}, nil
}

// Compile collects system information and compiles it into a snapshot.
func (c Collector) Compile() (snapshot Snapshot, err error) {
	slog.Debug("Compiling snapshot")
	defer decorate.OnError(&err, "snapshot compile failed")

	info, err := c.sysInfo.Collect()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to collect system information: %v", err)
	}

	snapshot = Snapshot{
		SnapshotVersion: constants.Version,
		ID:              c.newID(),
		CollectedAt:     c.time.UnixMilli(),
		SysInfo:         info,
	}
	slog.Info("Snapshot compiled", "id", snapshot.ID)

	return snapshot, nil
}

// Write writes the snapshot to disk, and cleans up old snapshots.
//
// If dryRun is true, then Write does nothing other than marshaling the snapshot.
func (c Collector) Write(snapshot Snapshot) (err error) {
	slog.Debug("Writing snapshot", "dryRun", c.dryRun)
	defer decorate.OnError(&err, "snapshot write failed")

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %v", err)
	}

	if c.dryRun {
		slog.Info("Dry run, not writing snapshot")
		return nil
	}

	if err := os.MkdirAll(c.cacheDir, 0750); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %v", err)
	}

	path := filepath.Join(c.cacheDir, fmt.Sprintf("%d%s", snapshot.CollectedAt, constants.SnapshotExt))
	if err := fileutils.AtomicWrite(path, data); err != nil {
		return fmt.Errorf("failed to write snapshot: %v", err)
	}

	if err := report.Cleanup(c.cacheDir, c.maxSnapshots); err != nil {
		return fmt.Errorf("failed to clean up old snapshots: %v", err)
	}

	return nil
}
