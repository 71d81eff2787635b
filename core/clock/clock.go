package clock

import (
	"sync"
	"time"
)

// Clock is the time source services consult for "now".
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Real returns the wall clock.
func Real() Clock { return realClock{} }

// Fixed is a controllable clock for tests.
type Fixed struct {
	mu      sync.Mutex
	current time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{current: t}
}

func (c *Fixed) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Fixed) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward and returns the new time.
func (c *Fixed) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}
