// hwsnap is the command line tool for compiling storage snapshots.
package main

import (
	"log/slog"
	"os"

	"github.com/hwsnap/hwsnap/cmd/hwsnap/commands"
)

func main() {
	a, err := commands.New()
	if err != nil {
		slog.Error("Can't create application", "error", err)
		os.Exit(1)
	}

	os.Exit(run(a))
}

type app interface {
	Run() error
	UsageError() bool
}

func run(a app) int {
	if err := a.Run(); err != nil {
		slog.Error(err.Error())

		if a.UsageError() {
			return 2
		}
		return 1
	}

	return 0
}
