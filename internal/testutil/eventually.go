package testutil

import (
	"testing"
	"time"
)

// Eventually polls fn until it returns true or timeout elapses. Observers
// in this module deliver asynchronously after a debounce, so tests wait
// with this instead of sleeping.
func Eventually(t testing.TB, timeout, interval time.Duration, fn func() bool, format string, args ...any) {
	t.Helper()
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if fn() {
			return
		}
		select {
		case <-deadline.C:
			if format == "" {
				t.Fatalf("condition not met within %s", timeout)
			}
			t.Fatalf(format, args...)
		case <-ticker.C:
		}
	}
}

// Never fails if fn returns true at any poll before window elapses.
func Never(t testing.TB, window, interval time.Duration, fn func() bool, format string, args ...any) {
	t.Helper()
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	deadline := time.NewTimer(window)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if fn() {
			t.Fatalf(format, args...)
		}
		select {
		case <-deadline.C:
			return
		case <-ticker.C:
		}
	}
}
