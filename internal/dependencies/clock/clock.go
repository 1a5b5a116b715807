package clock

import "time"

// Clock provides the current time and can be mocked for testing. All
// time-sensitive workflow logic reads time through this interface, never
// from the system clock directly.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current wall-clock time
func (c *RealClock) Now() time.Time {
	return time.Now()
}
