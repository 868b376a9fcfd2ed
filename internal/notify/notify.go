// Package notify implements the transient user-facing notice surface: at
// most one notice exists at a time (latest wins, no queue) and it expires
// after a fixed delay.
package notify

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
	LevelWarning = "warning"
)

type Notice struct {
	Level     string    `json:"tipo"`
	Message   string    `json:"mensaje"`
	CreatedAt time.Time `json:"fecha"`
}

const DefaultTTL = 3 * time.Second

type Center struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	ttl     time.Duration
	current *Notice
}

func NewCenter(clock clockwork.Clock, ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{clock: clock, ttl: ttl}
}

// Publish replaces any visible notice with the new one.
func (c *Center) Publish(level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = &Notice{Level: level, Message: message, CreatedAt: c.clock.Now()}
}

// Current returns the visible notice, or nil once the TTL has elapsed.
func (c *Center) Current() *Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	if c.clock.Since(c.current.CreatedAt) >= c.ttl {
		c.current = nil
		return nil
	}
	notice := *c.current
	return &notice
}
