package testutils

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var update = flag.Bool("update", false, "update golden files")

// GoldenPath returns the path to the golden file for the current test.
func GoldenPath(t *testing.T) string {
	t.Helper()

	return filepath.Join("testdata", "golden", normalizeName(t.Name()))
}

// LoadWithUpdateFromGolden loads the golden file content for the current test,
// or updates it with data when the -update flag is used.
func LoadWithUpdateFromGolden(t *testing.T, data string) string {
	t.Helper()

	goldenPath := GoldenPath(t)

	if *update {
		t.Logf("updating golden file %s", goldenPath)
		require.NoError(t, os.MkdirAll(filepath.Dir(goldenPath), 0750), "Cannot create golden directory")
		require.NoError(t, os.WriteFile(goldenPath, []byte(data), 0600), "Cannot write golden file")
	}

	want, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "Cannot load golden file")

	return string(want)
}

// LoadWithUpdateFromGoldenYAML loads the golden file content as YAML for the
// current test, or updates it from got when the -update flag is used.
func LoadWithUpdateFromGoldenYAML[E any](t *testing.T, got E) E {
	t.Helper()

	data, err := yaml.Marshal(got)
	require.NoError(t, err, "Cannot marshal given data to YAML")

	want := LoadWithUpdateFromGolden(t, string(data))

	var wantDeserialized E
	require.NoError(t, yaml.Unmarshal([]byte(want), &wantDeserialized), "Cannot deserialize golden file content")
	return wantDeserialized
}

// normalizeName replaces path separators and spaces in a test name so it can
// be used as a file name on every platform.
func normalizeName(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_")
	return r.Replace(name)
}
