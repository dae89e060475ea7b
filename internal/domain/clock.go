package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps fetch notifications and rendered documents. Tests freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock.
func Now() time.Time { return clock.Now() }

// Elapsed returns the time elapsed since t according to the package clock.
func Elapsed(t time.Time) time.Duration { return clock.Since(t) }
