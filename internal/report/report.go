// Package report provides utility functions for handling snapshot files.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/hwsnap/hwsnap/internal/constants"
)

var (
	// ErrInvalidSnapshotExt is returned when a snapshot file has an invalid extension.
	ErrInvalidSnapshotExt = errors.New("invalid snapshot file extension")

	// ErrInvalidSnapshotName is returned when a snapshot file has an invalid name that can't be parsed.
	ErrInvalidSnapshotName = errors.New("invalid snapshot file name")
)

// Snapshot represents a snapshot file on disk.
type Snapshot struct {
	Path      string // Path is the path to the snapshot file.
	Name      string // Name is the name of the snapshot file, including extension.
	TimeStamp int64  // TimeStamp is the collection timestamp encoded in the name.
}

// New creates a new Snapshot object from a path.
// It does not write to the file system, or validate the path.
func New(path string) (Snapshot, error) {
	if filepath.Ext(path) != constants.SnapshotExt {
		return Snapshot{}, ErrInvalidSnapshotExt
	}

	sTime, err := getSnapshotTime(filepath.Base(path))
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{Path: path, Name: filepath.Base(path), TimeStamp: sTime}, nil
}

// ReadJSON reads the JSON data from the snapshot file.
func (s Snapshot) ReadJSON() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %v", err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON data in snapshot file")
	}

	return data, nil
}

// GetAll returns all snapshots in a given directory, most recent first.
// Snapshots are expected to have the correct file extension, and a name which
// can be parsed as a timestamp. Does not traverse subdirectories.
func GetAll(dir string) ([]Snapshot, error) {
	snapshots := make([]Snapshot, 0)
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path: %v", err)
		}

		// Skip subdirectories.
		if d.IsDir() && path != dir {
			return filepath.SkipDir
		}
		if d.IsDir() {
			return nil
		}

		s, err := New(path)
		if errors.Is(err, ErrInvalidSnapshotExt) || errors.Is(err, ErrInvalidSnapshotName) {
			slog.Info("Skipping non-snapshot file", "file", d.Name(), "error", err)
			return nil
		} else if err != nil {
			return fmt.Errorf("failed to create snapshot object: %v", err)
		}

		snapshots = append(snapshots, s)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(snapshots, func(a, b Snapshot) int {
		switch {
		case a.TimeStamp > b.TimeStamp:
			return -1
		case a.TimeStamp < b.TimeStamp:
			return 1
		default:
			return strings.Compare(a.Name, b.Name)
		}
	})
	return snapshots, nil
}

// Cleanup removes the oldest snapshots in dir so at most maxSnapshots remain.
// A non-positive maxSnapshots disables retention.
func Cleanup(dir string, maxSnapshots int) error {
	if maxSnapshots <= 0 {
		return nil
	}

	snapshots, err := GetAll(dir)
	if err != nil {
		return err
	}
	if len(snapshots) <= maxSnapshots {
		return nil
	}

	for _, s := range snapshots[maxSnapshots:] {
		if err := os.Remove(s.Path); err != nil {
			return fmt.Errorf("failed to remove snapshot %s: %v", s.Name, err)
		}
		slog.Debug("removed old snapshot", "file", s.Name)
	}
	return nil
}

// getSnapshotTime returns a int64 representation of the snapshot time from the snapshot path.
func getSnapshotTime(path string) (int64, error) {
	fileName := filepath.Base(path)
	i, err := strconv.ParseInt(strings.TrimSuffix(fileName, filepath.Ext(fileName)), 10, 64)
	if err != nil {
		return i, fmt.Errorf("%w: %v", ErrInvalidSnapshotName, err)
	}
	return i, nil
}
