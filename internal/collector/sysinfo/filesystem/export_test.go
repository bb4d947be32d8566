package filesystem

import "log/slog"

// WithLogger overrides the default logger.
func WithLogger(handler slog.Handler) Options {
	return func(o *options) {
		o.log = slog.New(handler)
	}
}

// WithMountTable overrides the default mount table command.
func WithMountTable(cmd []string) Options {
	return func(o *options) {
		o.mountCmd = cmd
	}
}

// WithSizeTable overrides the default size table command.
func WithSizeTable(cmd []string) Options {
	return func(o *options) {
		o.dfCmd = cmd
	}
}

// WithRoot overrides the filesystem root the gptid directory is
// resolved under.
func WithRoot(root string) Options {
	return func(o *options) {
		o.root = root
	}
}
