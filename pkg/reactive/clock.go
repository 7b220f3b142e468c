package reactive

import "time"

// Clock abstracts timer creation so debounce windows and notification
// dismissal can be driven deterministically in tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc runs fn after d elapses and returns a cancellation handle.
	AfterFunc(d time.Duration, fn func()) TimerHandle
}

// TimerHandle cancels a pending timer.
type TimerHandle interface {
	// Stop cancels the timer. It reports whether the call stopped the
	// timer before it fired.
	Stop() bool
}

// SystemClock is the production Clock backed by the time package.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// AfterFunc implements Clock.
func (SystemClock) AfterFunc(d time.Duration, fn func()) TimerHandle {
	return time.AfterFunc(d, fn)
}
