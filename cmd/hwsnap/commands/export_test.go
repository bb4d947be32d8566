package commands

import "io"

type (
	NewCollector = newCollector
	NewStorage   = newStorage
)

// SetArgs sets the arguments for the command.
func (a *App) SetArgs(args []string) {
	a.cmd.SetArgs(args)
}

// SetOut sets the destination for command output.
func (a *App) SetOut(w io.Writer) {
	a.cmd.SetOut(w)
}

// WithNewCollector sets the new collector function for the app.
func WithNewCollector(nc NewCollector) Options {
	return func(o *options) {
		o.newCollector = nc
	}
}

// WithNewStorage sets the new storage collector function for the app.
func WithNewStorage(ns NewStorage) Options {
	return func(o *options) {
		o.newStorage = ns
	}
}
