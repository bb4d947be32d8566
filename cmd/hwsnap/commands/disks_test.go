package commands_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/hwsnap/hwsnap/cmd/hwsnap/commands"
	"github.com/hwsnap/hwsnap/internal/collector/sysinfo"
	"github.com/hwsnap/hwsnap/internal/collector/sysinfo/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	info storage.Info
	err  error
}

func (f fakeStorage) Collect() (storage.Info, error) {
	return f.info, f.err
}

func TestDisks(t *testing.T) {
	t.Parallel()

	info := storage.Info{Disks: []storage.DiskStore{
		{
			Name: "ada0", Model: "Samsung SSD 850", Serial: "S21NNXAG811111G",
			SizeBytes: 500107862016, ReadsCount: 12, WritesCount: 8,
			Partitions: []storage.Partition{
				{Name: "ada0p1", SizeBytes: 272629760, Type: "efi"},
				{Name: "ada0p2", SizeBytes: 498570608640, Type: "freebsd-ufs", MountPoint: "/"},
			},
		},
		{Name: "cd0", Model: "VBOX CD-ROM"},
	}}

	tests := map[string]struct {
		info storage.Info
		err  error

		wantContains []string
		wantErr      bool
	}{
		"Disks table lists disks and partitions": {
			info: info,
			wantContains: []string{
				"NAME", "SIZE", "MODEL", "SERIAL", "READS", "WRITES",
				"ada0", "466 GiB", "Samsung SSD 850", "S21NNXAG811111G",
				"  ada0p1", "260 MiB", "efi",
				"  ada0p2", "464 GiB", "freebsd-ufs",
				"cd0", "VBOX CD-ROM",
			},
		},
		"Collection error is returned": {
			err:     fmt.Errorf("fake storage error"),
			wantErr: true,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a, _ := newAppForTests(t, []string{"disks"}, commands.WithNewStorage(func() sysinfo.CollectorT[storage.Info] {
				return fakeStorage{info: tc.info, err: tc.err}
			}))
			var out bytes.Buffer
			a.SetOut(&out)

			err := a.Run()
			if tc.wantErr {
				require.Error(t, err)
				assert.False(t, a.UsageError(), "A collection error is not a usage error")
				return
			}
			require.NoError(t, err)

			for _, want := range tc.wantContains {
				assert.Contains(t, out.String(), want, "Disks table should contain %q", want)
			}
		})
	}
}
