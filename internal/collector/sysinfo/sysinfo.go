// Package sysinfo allows collecting the storage related system
// information that makes up a snapshot.
package sysinfo

import (
	"fmt"
	"log/slog"

	"github.com/hwsnap/hwsnap/internal/collector/sysinfo/filesystem"
	"github.com/hwsnap/hwsnap/internal/collector/sysinfo/storage"
)

// CollectorT describes a type that collects some information T.
type CollectorT[T any] interface {
	Collect() (T, error)
}

// Options is the variadic options available to the Collector.
type Options func(*options)

type options struct {
	storage    CollectorT[storage.Info]
	filesystem CollectorT[filesystem.Info]
	log        *slog.Logger
}

// Collector handles dependencies for collecting storage & filesystem information.
// Collector implements CollectorT[sysinfo.Info].
type Collector struct {
	storage    CollectorT[storage.Info]
	filesystem CollectorT[filesystem.Info]
	log        *slog.Logger
}

// Info contains the storage and filesystem information of the system.
type Info struct {
	Storage    storage.Info    `json:"storage"`
	Filesystem filesystem.Info `json:"filesystem"`
}

// New returns a new SysInfo.
func New(args ...Options) Collector {
	opts := &options{
		storage:    storage.New(),
		filesystem: filesystem.New(),
		log:        slog.Default(),
	}

	for _, opt := range args {
		opt(opts)
	}

	return Collector{
		storage:    opts.storage,
		filesystem: opts.filesystem,
		log:        opts.log,
	}
}

// Collect gathers system information and returns it.
// Will only return an error if both storage and filesystem collection fail.
func (s Collector) Collect() (Info, error) {
	s.log.Debug("collecting sysinfo")

	stInfo, stErr := s.storage.Collect()
	fsInfo, fsErr := s.filesystem.Collect()

	if stErr != nil {
		s.log.Warn("failed to collect storage information", "error", stErr)
	}
	if fsErr != nil {
		s.log.Warn("failed to collect filesystem information", "error", fsErr)
	}
	if stErr != nil && fsErr != nil {
		return Info{}, fmt.Errorf("failed to collect system information")
	}

	return Info{
		Storage:    stInfo,
		Filesystem: fsInfo,
	}, nil
}
