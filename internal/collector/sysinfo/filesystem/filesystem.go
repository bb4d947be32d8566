// Package filesystem collects mounted filesystem information from the
// platform's mount table, sizing it from the df table and associating
// partition devices with their GPT UUIDs through the gptid directory.
package filesystem

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hwsnap/hwsnap/internal/cmdutils"
)

// mountPattern matches mount table lines, e.g.
// "/dev/ada0p2 on / (ufs, local, journaled soft-updates)". The third
// group is the filesystem type, the first token of the option list.
var mountPattern = regexp.MustCompile(`^(\S+) on (\S+) \((\w+)`)

// FSStore is one mounted filesystem.
type FSStore struct {
	Device     string `json:"device"`
	Mount      string `json:"mount"`
	Type       string `json:"type"`
	UUID       string `json:"uuid,omitempty"`
	TotalBytes uint64 `json:"totalBytes"`
	FreeBytes  uint64 `json:"freeBytes"`
}

// Info is the result of one filesystem collection pass.
type Info struct {
	Filesystems []FSStore `json:"filesystems"`
}

// Collector handles dependencies for collecting filesystem information.
// Collector implements CollectorT[filesystem.Info].
type Collector struct {
	opts options
}

// Options are the variadic options available to the Collector.
type Options func(*options)

type options struct {
	mountCmd []string
	dfCmd    []string
	root     string

	log *slog.Logger
}

// defaultOptions returns options for when running under a normal environment.
func defaultOptions() *options {
	return &options{
		mountCmd: []string{"mount"},
		dfCmd:    []string{"df", "-k"},
		root:     "/",

		log: slog.Default(),
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

// Collect gathers mounted filesystem information and returns it.
// The UUID association and size tables are consulted while building
// each store and rebuilt from scratch on every call.
func (c Collector) Collect() (info Info, err error) {
	defer func() {
		if err == nil && len(info.Filesystems) == 0 {
			err = fmt.Errorf("no filesystem information found")
		}
	}()

	c.opts.log.Debug("collecting filesystem info")

	sizes := c.parseSizes(c.sourceLines(c.opts.dfCmd))
	uuids := c.deviceUUIDs()

	for _, line := range c.sourceLines(c.opts.mountCmd) {
		m := mountPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		fs := FSStore{
			Device: m[1],
			Mount:  m[2],
			Type:   m[3],
			UUID:   uuids[filepath.Base(m[1])],
		}
		if sz, ok := sizes[m[1]]; ok {
			fs.TotalBytes = sz.total
			fs.FreeBytes = sz.free
		}
		info.Filesystems = append(info.Filesystems, fs)
	}

	slices.SortFunc(info.Filesystems, func(a, b FSStore) int {
		return strings.Compare(a.Mount, b.Mount)
	})

	return info, nil
}

type sizeEntry struct {
	total, free uint64
}

// parseSizes parses the df table into per-device byte sizes. The table
// reports 1K blocks; non-numeric rows such as the header are skipped.
func (c Collector) parseSizes(lines []string) map[string]sizeEntry {
	sizes := make(map[string]sizeEntry)
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 6 {
			continue
		}

		total, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		avail, err := strconv.ParseUint(fields[3], 10, 64)
		if err != nil {
			continue
		}
		sizes[fields[0]] = sizeEntry{total: total * 1024, free: avail * 1024}
	}
	return sizes
}

// deviceUUIDs enumerates the gptid directory, mapping each partition
// device to the GPT UUID its special file links to. A missing directory
// means the platform exposes no gptid labels and is not an error.
func (c Collector) deviceUUIDs() map[string]string {
	dir := filepath.Join(c.opts.root, "dev", "gptid")
	entries, err := os.ReadDir(dir)
	if err != nil {
		c.opts.log.Debug("no gptid information available", "error", err)
		return nil
	}

	uuids := make(map[string]string)
	for _, e := range entries {
		target, err := os.Readlink(filepath.Join(dir, e.Name()))
		if err != nil {
			c.opts.log.Warn("failed to read gptid link", "entry", e.Name(), "error", err)
			continue
		}
		uuids[filepath.Base(target)] = e.Name()
	}
	return uuids
}

// sourceLines acquires one raw source. A source that failed to produce
// lines is treated as no data available, not as an error.
func (c Collector) sourceLines(cmd []string) []string {
	lines, err := cmdutils.RunLines(context.Background(), 15*time.Second, c.opts.log, cmd[0], cmd[1:]...)
	if err != nil {
		c.opts.log.Warn("failed to run filesystem source", "cmd", strings.Join(cmd, " "), "error", err)
		return nil
	}
	return lines
}
