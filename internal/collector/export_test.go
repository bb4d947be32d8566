package collector

// WithTimeProvider sets the time provider for the collector.
func WithTimeProvider(tp timeProvider) Options {
	return func(o *options) {
		o.timeProvider = tp
	}
}

// WithIDProvider sets the snapshot identifier generator.
func WithIDProvider(newID func() string) Options {
	return func(o *options) {
		o.newID = newID
	}
}

// WithSysInfo sets the system information collector.
func WithSysInfo(si SysInfo) Options {
	return func(o *options) {
		o.sysInfo = si
	}
}
