package utils

import (
	"sync"
	"time"
)

// Clock is the time source of the reconciler. Pull responses take their
// timestamp from it, and soft deletes their deletion time.
type Clock interface {
	Now() time.Time
}

// NowMillis reads c and drops everything below a millisecond. Stored server
// times and pull timestamps both go through it, so a value written in the
// same millisecond as a pull never compares greater than that pull's
// watermark.
func NowMillis(c Clock) time.Time {
	return c.Now().Truncate(time.Millisecond)
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant until moved. Safe for
// concurrent use.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock returns a clock stopped at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t.UTC()}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t.UTC()
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
