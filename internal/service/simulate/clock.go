// Package simulate provides the timer-driven state machines behind every
// "operation that takes time" in the mesh: delayed actions, progress bars and
// the live history feed. All timers come from an injectable Clock.
package simulate

import "time"

// Clock schedules callbacks. Production code uses RealClock; tests use FakeClock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a scheduled callback that can be stopped before it fires
type Timer interface {
	// Stop prevents the callback from firing.
	// Returns false if the callback already fired or was stopped.
	Stop() bool
}

// RealClock is backed by the time package
type RealClock struct{}

// NewRealClock returns the wall clock
func NewRealClock() RealClock { return RealClock{} }

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
