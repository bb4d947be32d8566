// Package cmdutils provides utility functions for running commands.
package cmdutils

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Run executes the command specified by cmd with arguments args using the provided context.
// Returns stdout and stderr output and error code.
func Run(ctx context.Context, cmd string, args ...string) (stdout, stderr *bytes.Buffer, err error) {
	stdout = &bytes.Buffer{}
	stderr = &bytes.Buffer{}

	c := exec.CommandContext(ctx, cmd, args...)
	c.Stdout = stdout
	c.Stderr = stderr
	c.Env = append(c.Env, "LANG=C")
	c.Env = append(c.Env, os.Environ()...)
	err = c.Run()

	return stdout, stderr, err
}

// RunWithTimeout calls Run but a timeout is added to the provided context.
func RunWithTimeout(ctx context.Context, timeout time.Duration, cmd string, args ...string) (stdout, stderr *bytes.Buffer, err error) {
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return Run(c, cmd, args...)
}

// RunLines executes the command and returns its stdout split into lines.
// Stderr output is logged but does not fail the run.
// An empty stdout returns no lines.
func RunLines(ctx context.Context, timeout time.Duration, log *slog.Logger, cmd string, args ...string) ([]string, error) {
	stdout, stderr, err := RunWithTimeout(ctx, timeout, cmd, args...)
	if err != nil {
		return nil, err
	}
	if stderr.Len() > 0 {
		log.Info(fmt.Sprintf("%s output to stderr", cmd), "stderr", stderr)
	}

	out := strings.TrimRight(stdout.String(), "\n")
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}
