package testutils

import (
	"sync"
	"time"

	"github.com/KirkDiggler/expedition-api/internal/pkg/clock"
)

// ManualClock is a clock.Clock that only moves when told to
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

var _ clock.Clock = (*ManualClock)(nil)

// NewManualClock creates a clock frozen at now
func NewManualClock(now time.Time) *ManualClock {
	return &ManualClock{now: now}
}

// Now returns the current frozen time
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
