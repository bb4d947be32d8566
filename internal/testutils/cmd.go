package testutils

import (
	"fmt"
	"os"
	"testing"
)

// SetupFakeCmdArgs returns the argument list needed to re-run the test binary
// as the fake command implemented by the test function fakeCmdName.
// Everything in args is passed to the fake command after the "--" separator.
func SetupFakeCmdArgs(fakeCmdName string, args ...string) []string {
	cmdArgs := []string{os.Args[0], "-test.run=^" + fakeCmdName + "$", "--"}
	return append(cmdArgs, args...)
}

// GetFakeCmdArgs returns the arguments passed to a fake command invocation.
// It errors when the current process is not a fake command subprocess,
// so fake command test functions can return early under a normal test run.
func GetFakeCmdArgs() ([]string, error) {
	for i, arg := range os.Args {
		if arg != "--" {
			continue
		}
		if i+1 >= len(os.Args) {
			return nil, fmt.Errorf("no arguments after fake command separator")
		}
		return os.Args[i+1:], nil
	}
	return nil, fmt.Errorf("not running as a fake command")
}

// SetupHelperCoverdir creates a coverage directory for fake command
// subprocesses when coverage collection is enabled.
// Returns the directory and whether it was created.
func SetupHelperCoverdir() (string, bool) {
	if testing.CoverMode() == "" {
		return "", false
	}

	dir, err := os.MkdirTemp("", "hwsnap-tests-coverdir")
	if err != nil {
		return "", false
	}
	if err := os.Setenv("GOCOVERDIR", dir); err != nil {
		_ = os.RemoveAll(dir)
		return "", false
	}
	return dir, true
}
