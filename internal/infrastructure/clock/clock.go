package clock

import (
	"sync"
	"time"

	"github.com/zeto-network/zeto-escrowd/internal/core/ports"
)

type systemClock struct{}

// NewSystemClock returns the clock reading the time of the host.
func NewSystemClock() ports.Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// FixedClock is a manually driven clock.
type FixedClock struct {
	lock sync.RWMutex
	now  time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.now
}

// Set moves the clock to the given time.
func (c *FixedClock) Set(now time.Time) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = now
}

// Advance moves the clock forward by the given duration.
func (c *FixedClock) Advance(d time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = c.now.Add(d)
}
