package commands_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/hwsnap/hwsnap/cmd/hwsnap/commands"
	"github.com/hwsnap/hwsnap/internal/collector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCollector struct {
	compileErr error
	writeErr   error

	wrote bool
}

func (m *mockCollector) Compile() (collector.Snapshot, error) {
	if m.compileErr != nil {
		return collector.Snapshot{}, m.compileErr
	}
	return collector.Snapshot{SnapshotVersion: "Dev", ID: "test-id", CollectedAt: 1724400000000}, nil
}

func (m *mockCollector) Write(collector.Snapshot) error {
	m.wrote = true
	return m.writeErr
}

func newAppForTests(t *testing.T, args []string, opts ...commands.Options) (app *commands.App, cachePath string) {
	t.Helper()

	cachePath = t.TempDir()
	args = append(args, "--cache-dir", cachePath)

	app, err := commands.New(opts...)
	require.NoError(t, err, "Setup: could not create app")

	app.SetArgs(args)
	return app, cachePath
}

func TestCollect(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		args []string

		compileErr error
		writeErr   error

		wantDryRun   bool
		wantWritten  bool
		wantErr      bool
		wantUsageErr bool
	}{
		"Collect writes a snapshot": {
			args:        []string{"collect"},
			wantWritten: true,
		},
		"Collect dry run prints instead of writing": {
			args:       []string{"collect", "--dry-run"},
			wantDryRun: true,
		},
		"Collect with retention flag": {
			args:        []string{"collect", "--max-snapshots", "3"},
			wantWritten: true,
		},

		// Error cases
		"Collect rejects arguments": {
			args:         []string{"collect", "extra-arg"},
			wantErr:      true,
			wantUsageErr: true,
		},
		"Collect bad flag": {
			args:         []string{"collect", "--bad-flag"},
			wantErr:      true,
			wantUsageErr: true,
		},
		"Compile error is not a usage error": {
			args:       []string{"collect"},
			compileErr: fmt.Errorf("fake compile error"),
			wantErr:    true,
		},
		"Write error is not a usage error": {
			args:     []string{"collect"},
			writeErr: fmt.Errorf("fake write error"),
			wantErr:  true,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			mc := &mockCollector{compileErr: tc.compileErr, writeErr: tc.writeErr}
			var gotCachePath string
			var gotDryRun bool
			newCollector := func(cachePath string, dryRun bool, args ...collector.Options) (commands.Collector, error) {
				gotCachePath = cachePath
				gotDryRun = dryRun
				return mc, nil
			}

			a, cachePath := newAppForTests(t, tc.args, commands.WithNewCollector(newCollector))
			var out bytes.Buffer
			a.SetOut(&out)

			err := a.Run()
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, tc.wantUsageErr, a.UsageError(), "Unexpected usage error state")
				return
			}
			require.NoError(t, err)
			require.False(t, a.UsageError())

			assert.Equal(t, cachePath, gotCachePath, "Cache path passed to the collector is not as expected")
			assert.Equal(t, tc.wantDryRun, gotDryRun, "Dry run state passed to the collector is not as expected")
			assert.Equal(t, tc.wantWritten, mc.wrote, "Unexpected snapshot write state")

			if tc.wantDryRun {
				assert.Contains(t, out.String(), `"id": "test-id"`, "Dry run should print the snapshot")
			}
		})
	}
}
