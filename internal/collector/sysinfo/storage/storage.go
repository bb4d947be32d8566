// Package storage collects disk and partition information from the
// platform's storage enumeration tools.
//
// The information is reconciled from several independent sources that each
// describe a different slice of the same devices: the mount table, iostat
// style throughput counters, and the geometry listings for disks and
// partitions. Fragments are merged by device name; a fragment arriving
// before its owning device is known creates a placeholder that later
// fragments fill in.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/hwsnap/hwsnap/internal/cmdutils"
)

// DiskStore is one physical or logical storage device.
// Metric fields default to zero when a source had no data for them.
type DiskStore struct {
	Name               string      `json:"name"`
	Model              string      `json:"model"`
	Serial             string      `json:"serial"`
	SizeBytes          uint64      `json:"sizeBytes"`
	ReadsCount         uint64      `json:"reads"`
	WritesCount        uint64      `json:"writes"`
	ReadBytes          uint64      `json:"readBytes"`
	WriteBytes         uint64      `json:"writeBytes"`
	TransferTimeMillis uint64      `json:"transferTimeMs"`
	Timestamp          int64       `json:"timestamp"`
	Partitions         []Partition `json:"partitions,omitempty"`
}

// Partition is one addressable region of a DiskStore.
type Partition struct {
	Identification string `json:"identification"`
	Name           string `json:"name"`
	SizeBytes      uint64 `json:"sizeBytes"`
	UUID           string `json:"uuid"`
	Type           string `json:"type"`
	MountPoint     string `json:"mountPoint"`
	MinorNumber    int    `json:"minorNumber"`
}

// Info is the result of one storage collection pass.
type Info struct {
	Disks []DiskStore `json:"disks"`

	// Diagnostics reports parse quality for the pass.
	// It is not part of the snapshot payload.
	Diagnostics Diagnostics `json:"-" yaml:"-"`
}

// Diagnostics counts the input a parse pass could not use. Malformed
// input degrades to zero values instead of failing the pass; these
// counters make that visible.
type Diagnostics struct {
	SkippedLines    uint
	DefaultedFields uint
	OrphanLines     uint
}

// PartitionMatcher decides whether a geometry line opens a new partition
// entry for the disk named disk, and returns the partition device token.
// The rule is per source format; see MatchGeomPartition.
type PartitionMatcher func(line, disk string) (string, bool)

// MatchGeomPartition is the geom part list rule: a line mentioning
// "Name:" whose trailing token carries the owning disk's name as a
// strict prefix. The prefix check keeps entries of the consumers
// section, which name the disk itself or unrelated devices, from being
// taken for partitions.
func MatchGeomPartition(line, disk string) (string, bool) {
	if disk == "" || !strings.Contains(line, "Name:") {
		return "", false
	}

	tok := line[strings.LastIndex(line, " ")+1:]
	if len(tok) <= len(disk) || !strings.HasPrefix(tok, disk) {
		return "", false
	}
	return tok, true
}

// Collector handles dependencies for collecting storage information.
// Collector implements CollectorT[storage.Info].
type Collector struct {
	opts options
}

// Options are the variadic options available to the Collector.
type Options func(*options)

type options struct {
	mountCmd    []string
	devicesCmd  []string
	counterCmd  []string
	geomDiskCmd []string
	geomPartCmd []string
	statCmd     []string

	matchPartition PartitionMatcher
	now            func() time.Time
	log            *slog.Logger
}

// defaultOptions returns options for when running under a normal environment.
func defaultOptions() *options {
	return &options{
		mountCmd:    []string{"mount"},
		devicesCmd:  []string{"sysctl", "-n", "kern.disks"},
		counterCmd:  []string{"iostat", "-Ix"},
		geomDiskCmd: []string{"geom", "disk", "list"},
		geomPartCmd: []string{"geom", "part", "list"},
		statCmd:     []string{"stat", "-f", "%i"},

		matchPartition: MatchGeomPartition,
		now:            time.Now,
		log:            slog.Default(),
	}
}

// New returns a new Collector.
func New(args ...Options) Collector {
	opts := defaultOptions()
	for _, opt := range args {
		opt(opts)
	}

	return Collector{opts: *opts}
}

// Collect gathers disk and partition information and returns it.
//
// Each source is acquired and parsed in full before the next one, over a
// parse session created for this call alone. A failed or empty source
// contributes nothing to merge but never aborts the pass.
func (c Collector) Collect() (info Info, err error) {
	defer func() {
		if err == nil && len(info.Disks) == 0 {
			err = fmt.Errorf("no disk information found")
		}
	}()

	c.opts.log.Debug("collecting storage info")

	s := newSession(c.opts.log)

	s.parseMounts(c.sourceLines(c.opts.mountCmd))

	devices := c.validDevices()
	s.parseCounters(c.sourceLines(c.opts.counterCmd), devices, c.opts.now().UnixMilli())
	s.parseDiskGeometry(c.sourceLines(c.opts.geomDiskCmd), devices)
	s.parsePartGeometry(c.sourceLines(c.opts.geomPartCmd), devices, c.opts.matchPartition)

	info.Disks = s.resolve(c.minorNumber)
	info.Diagnostics = s.diag

	c.opts.log.Debug("storage parse diagnostics",
		"skippedLines", s.diag.SkippedLines,
		"defaultedFields", s.diag.DefaultedFields,
		"orphanLines", s.diag.OrphanLines)

	return info, nil
}

// sourceLines acquires one raw source. A source that failed to produce
// lines is treated as no data available, not as an error.
func (c Collector) sourceLines(cmd []string) []string {
	lines, err := cmdutils.RunLines(context.Background(), 15*time.Second, c.opts.log, cmd[0], cmd[1:]...)
	if err != nil {
		c.opts.log.Warn("failed to run storage source", "cmd", strings.Join(cmd, " "), "error", err)
		return nil
	}
	return lines
}

// validDevices returns the set of device names the platform considers
// real disks. Sources mentioning devices outside the set, such as
// virtual or snapshot devices, are ignored.
func (c Collector) validDevices() map[string]struct{} {
	devices := make(map[string]struct{})
	for _, line := range c.sourceLines(c.opts.devicesCmd) {
		for _, d := range strings.Fields(line) {
			devices[d] = struct{}{}
		}
	}
	return devices
}

// minorNumber resolves the platform minor number of a partition through
// one stat query on its device special file. Failure defaults to zero
// and never affects sibling partitions.
func (c Collector) minorNumber(partition string) int {
	args := append(append([]string{}, c.opts.statCmd[1:]...), "/dev/"+partition)

	stdout, stderr, err := cmdutils.RunWithTimeout(context.Background(), 15*time.Second, c.opts.statCmd[0], args...)
	if err != nil {
		c.opts.log.Warn("failed to stat partition", "partition", partition, "error", err)
		return 0
	}
	if stderr.Len() > 0 {
		c.opts.log.Info("stat output to stderr", "stderr", stderr)
	}

	v, err := strconv.Atoi(strings.TrimSpace(stdout.String()))
	if err != nil {
		c.opts.log.Warn("stat returned a non numeric minor number", "partition", partition, "error", err)
		return 0
	}
	return v
}
