package cli

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/araddon/dateparse"
)

// Clock supplies "now" for relative labels and new notes. It follows the
// wall clock until pinned with Set.
type Clock struct {
	mu    sync.Mutex
	live  func() time.Time
	fixed *time.Time
}

func NewClock(live func() time.Time) *Clock {
	if live == nil {
		live = time.Now
	}
	return &Clock{live: live}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fixed != nil {
		return *c.fixed
	}
	return c.live()
}

// Set pins the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fixed = &t
}

// Reset returns the clock to wall time.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fixed = nil
}

func (c *Clock) Pinned() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fixed != nil
}

// ParseTime reads a free-form date such as "2024-05-10 15:45",
// "May 10, 2024 3:45pm" or "10/05/2024" in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse %q as a date: %w", s, err)
	}
	return t, nil
}
