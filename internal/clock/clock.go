// Package clock provides a monotonic time source that can be driven by hand
// in tests.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time to the overlay scheduler
type Clock interface {
	// Now returns the current time
	Now() time.Time
}

// Real implements Clock using the standard time package.  Times returned
// carry a monotonic reading so interval comparisons are immune to wall clock
// adjustments.
type Real struct{}

// Now returns the current time
func (Real) Now() time.Time {
	return time.Now()
}

// Manual is a manually controlled clock for testing
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual creates a new Manual clock set to the given time
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

// Now returns the manual clock's current time
func (c *Manual) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set sets the clock to a specific time
func (c *Manual) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by the given duration
func (c *Manual) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
