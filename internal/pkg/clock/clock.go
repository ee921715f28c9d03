// Package clock provides time utilities for the application
package clock

import (
	"sync"
	"time"
)

// Clock provides time functionality
type Clock interface {
	Now() time.Time
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current time
func (c *Real) Now() time.Time {
	return time.Now()
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}

// Manual is a Clock whose time only moves when told to. Used by tests that
// exercise mission expiry and generation cooldowns.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a manual clock pinned to the given instant
func NewManual(now time.Time) *Manual {
	return &Manual{now: now}
}

// Now returns the clock's current instant
func (c *Manual) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *Manual) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
