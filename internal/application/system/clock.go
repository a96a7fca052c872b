package system

import "time"

// Clock reports simulation time.
type Clock interface {
	Now() time.Duration
}

// SimClock is a fixed-step simulation clock. It only moves when the
// simulation advances it, so timing is independent of wall time.
type SimClock struct {
	now  time.Duration
	step time.Duration
}

// NewSimClock creates a clock starting at zero that advances by step
func NewSimClock(step time.Duration) *SimClock {
	return &SimClock{step: step}
}

// Now returns the current simulation time
func (c *SimClock) Now() time.Duration {
	return c.now
}

// Step returns the tick length
func (c *SimClock) Step() time.Duration {
	return c.step
}

// Advance moves the clock forward one tick and returns the new time
func (c *SimClock) Advance() time.Duration {
	c.now += c.step
	return c.now
}

// Reset rewinds the clock to zero
func (c *SimClock) Reset() {
	c.now = 0
}
