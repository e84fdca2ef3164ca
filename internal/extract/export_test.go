package extract

import "time"

type TimeProvider = timeProvider

// WithTimeProvider sets the time provider used to date reports.
func WithTimeProvider(tp TimeProvider) Options {
	return func(o *options) {
		o.timeProvider = tp
	}
}

// WithReadFile sets the function used to read input files.
func WithReadFile(f func(string) ([]byte, error)) Options {
	return func(o *options) {
		o.readFile = f
	}
}

// FixedTime is a time provider always returning the same time.
type FixedTime time.Time

// Now implements timeProvider.
func (t FixedTime) Now() time.Time {
	return time.Time(t)
}
