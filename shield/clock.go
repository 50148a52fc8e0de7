// Package shield holds the device-side helpers behaviors use to talk to the
// LED shield: a millisecond clock, pin access, key debouncing, potentiometer
// scaling, LED fading and serial state demands. None of it depends on the
// dispatcher.
package shield

import (
	"math"
	"sync"
	"time"
)

// Millis is a millisecond timestamp. It wraps around like the
// microcontroller's 32-bit counter, so compare with Since, not with <.
type Millis uint32

// Since returns the milliseconds elapsed from earlier to m, correct across
// a single wraparound
func (m Millis) Since(earlier Millis) Millis {
	return m - earlier
}

// Clock is a millisecond time source
type Clock interface {
	Millis() Millis
}

// SystemClock counts milliseconds since it was created
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a clock starting at zero
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Millis returns the milliseconds since the clock was created
func (c *SystemClock) Millis() Millis {
	return Millis(time.Since(c.start).Milliseconds())
}

// ManualClock is a clock that only moves when told to
type ManualClock struct {
	mu  sync.Mutex
	now Millis
}

// Millis returns the current reading
func (c *ManualClock) Millis() Millis {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d, truncated to whole milliseconds
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += Millis(d.Milliseconds())
}

// Set moves the clock to ms
func (c *ManualClock) Set(ms Millis) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = ms
}

// Elapsed reports whether strictly more than minDelay has passed since last.
// A negative minDelay counts as zero. The counter wraps after about 49.7
// days, so a minDelay at or above that span never elapses.
func Elapsed(clock Clock, last Millis, minDelay time.Duration) bool {
	ms := minDelay.Milliseconds()
	switch {
	case ms < 0:
		ms = 0
	case ms >= math.MaxUint32:
		return false
	}
	return clock.Millis().Since(last) > Millis(ms)
}
