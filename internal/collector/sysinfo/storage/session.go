package storage

import (
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// mountPattern matches mount table lines associating a partition device
// with its mount point, e.g. "/dev/ada0p2 on /usr (ufs, local)".
var mountPattern = regexp.MustCompile(`^/dev/(\S+p\d+) on (\S+) .*`)

// parseState tracks which entity the geometry parsers currently
// attribute lines to.
type parseState int

const (
	noEntity parseState = iota
	inDisk
	inPartition
)

// session owns the aggregation state of a single collection pass: the
// mount association, the device keyed entity map and the parse
// diagnostics. A fresh session per pass guarantees stale data from a
// previous call never leaks forward.
type session struct {
	log *slog.Logger

	mounts map[string]string
	disks  map[string]*DiskStore

	diag Diagnostics
}

func newSession(log *slog.Logger) *session {
	return &session{
		log:    log,
		mounts: make(map[string]string),
		disks:  make(map[string]*DiskStore),
	}
}

// parseMounts builds the partition to mount point association.
// Lines not matching the pattern are legitimately irrelevant (pseudo
// filesystems, ZFS datasets) and skipped without note; on duplicate
// devices the last line wins.
func (s *session) parseMounts(lines []string) {
	for _, line := range lines {
		m := mountPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		s.mounts[m[1]] = m[2]
	}
}

// parseCounters parses iostat style totals into the entity map, keyed by
// the leading device token. Every entity produced by one pass carries
// the same timestamp so the snapshot reports a single collection
// instant.
func (s *session) parseCounters(lines []string, devices map[string]struct{}, timestamp int64) {
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 8 {
			s.diag.SkippedLines++
			continue
		}
		if _, ok := devices[fields[0]]; !ok {
			s.diag.SkippedLines++
			continue
		}

		s.disks[fields[0]] = &DiskStore{
			Name:        fields[0],
			ReadsCount:  uint64(s.floatField(fields[1])),
			WritesCount: uint64(s.floatField(fields[2])),
			// Byte counters are reported in KB, transfer time in seconds.
			ReadBytes:          uint64(s.floatField(fields[3]) * 1024),
			WriteBytes:         uint64(s.floatField(fields[4]) * 1024),
			TransferTimeMillis: uint64(s.floatField(fields[7]) * 1000),
			Timestamp:          timestamp,
		}
	}
}

// parseDiskGeometry walks the disk level geometry listing. The source is
// boundary delimited: a "Geom name:" header names a device and every
// following attribute line belongs to it until the next header. Matching
// attribute lines overwrite the field, last seen wins.
func (s *session) parseDiskGeometry(lines []string, devices map[string]struct{}) {
	state := noEntity
	var disk *DiskStore

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if dev, ok := boundaryDevice(line); ok {
			if disk = s.enterDisk(dev, devices); disk == nil {
				state = noEntity
			} else {
				state = inDisk
			}
			continue
		}
		if state == noEntity {
			s.diag.OrphanLines++
			continue
		}

		switch {
		case strings.HasPrefix(line, "Mediasize:"):
			if fields := strings.Fields(line); len(fields) > 1 {
				disk.SizeBytes = s.uintField(fields[1])
			}
		case strings.HasPrefix(line, "descr:"):
			disk.Model = strings.TrimSpace(strings.TrimPrefix(line, "descr:"))
		case strings.HasPrefix(line, "ident:"):
			disk.Serial = strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(line, "ident:"), "(null)", ""))
		}
	}
}

// parsePartGeometry walks the partition level geometry listing. On top
// of the disk boundaries it tracks a pending partition, opened by the
// partition matcher and flushed into its disk on the next partition, the
// next disk boundary, or end of input. The end of input flush is what
// keeps a listing that stops right after an attribute line from losing
// its last partition.
func (s *session) parsePartGeometry(lines []string, devices map[string]struct{}, match PartitionMatcher) {
	state := noEntity
	var disk *DiskStore
	var part *Partition

	flush := func() {
		if part != nil && disk != nil {
			disk.Partitions = append(disk.Partitions, *part)
		}
		part = nil
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if dev, ok := boundaryDevice(line); ok {
			flush()
			if disk = s.enterDisk(dev, devices); disk == nil {
				state = noEntity
			} else {
				state = inDisk
			}
			continue
		}
		if state == noEntity {
			s.diag.OrphanLines++
			continue
		}

		// Any nested "Name:" sub-header ends the pending partition; the
		// matcher decides whether it opens a new one or the section moved
		// on to entries that are not partitions of this disk.
		if strings.Contains(line, "Name:") {
			flush()
			state = inDisk
			if name, ok := match(line, disk.Name); ok {
				part = &Partition{
					Identification: name,
					Name:           name,
					MountPoint:     s.mounts[name],
				}
				state = inPartition
			}
			continue
		}
		if state != inPartition {
			// Disk section attributes of the partition listing carry
			// nothing the disk pass did not already provide.
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch {
		case strings.HasPrefix(line, "Mediasize:"):
			part.SizeBytes = s.uintField(fields[1])
		case strings.HasPrefix(line, "rawuuid:"):
			part.UUID = fields[1]
		case strings.HasPrefix(line, "type:"):
			part.Type = fields[1]
		}
	}

	flush()
}

// resolve finalizes the entity map into the deterministic snapshot
// order: disks sorted by name, each disk's partitions sorted by name
// with minor numbers resolved last.
func (s *session) resolve(minorNumber func(partition string) int) []DiskStore {
	names := make([]string, 0, len(s.disks))
	for name := range s.disks {
		names = append(names, name)
	}
	slices.Sort(names)

	disks := make([]DiskStore, 0, len(names))
	for _, name := range names {
		d := *s.disks[name]
		slices.SortFunc(d.Partitions, func(a, b Partition) int {
			return strings.Compare(a.Name, b.Name)
		})
		for i := range d.Partitions {
			d.Partitions[i].MinorNumber = minorNumber(d.Partitions[i].Name)
		}
		disks = append(disks, d)
	}
	return disks
}

// enterDisk resolves the device named by a boundary header. Devices
// outside the valid set park the parser so following attribute lines are
// ignored until the next boundary; valid devices missing from the entity
// map get a placeholder, since sources may arrive in any order.
func (s *session) enterDisk(dev string, devices map[string]struct{}) *DiskStore {
	if _, ok := devices[dev]; !ok {
		return nil
	}

	disk, ok := s.disks[dev]
	if !ok {
		disk = &DiskStore{Name: dev}
		s.disks[dev] = disk
	}
	return disk
}

// boundaryDevice extracts the trailing device token from a "Geom name:"
// header line.
func boundaryDevice(line string) (string, bool) {
	if !strings.HasPrefix(line, "Geom name:") {
		return "", false
	}
	return line[strings.LastIndex(line, " ")+1:], true
}

// floatField parses a numeric counter field, defaulting to zero on
// malformed input. Partial hardware data is more useful than none.
func (s *session) floatField(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		s.diag.DefaultedFields++
		return 0
	}
	return f
}

// uintField parses a byte count field, defaulting to zero on malformed
// input.
func (s *session) uintField(v string) uint64 {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		s.diag.DefaultedFields++
		return 0
	}
	return n
}
