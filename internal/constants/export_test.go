package constants

// WithBaseDir overrides the base directory function used to resolve default paths.
func WithBaseDir(f func() (string, error)) option {
	return func(o *options) {
		o.baseDir = f
	}
}
