// Package ratelimit implements the per-client cooldown gate used by the chat
// endpoint. It is a fixed-window-per-key limiter: a client is accepted when at
// least one full window has elapsed since its last accepted request. There is
// no burst allowance and no token refill; a client accepted at t=0 can be
// accepted again at exactly t=window, indefinitely.
package ratelimit

import (
	"log"
	"sync"
	"time"
)

// Cooldown tracks the last accepted request time per client key.
// The map is guarded by a mutex; the per-key check-and-record is a single
// critical section so two concurrent requests from the same client cannot
// both observe a stale "allowed" state.
type Cooldown struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time
	now    func() time.Time
}

// NewCooldown creates a Cooldown with the given window length.
func NewCooldown(window time.Duration) *Cooldown {
	return newCooldownWithClock(window, time.Now)
}

// newCooldownWithClock allows tests to inject a deterministic clock.
func newCooldownWithClock(window time.Duration, now func() time.Time) *Cooldown {
	return &Cooldown{
		window: window,
		last:   make(map[string]time.Time),
		now:    now,
	}
}

// Allow reports whether a request from the given client key may proceed.
// On acceptance, the key's last-accepted timestamp is set to now; on
// rejection, no state changes, so a hammering client does not push its own
// window forward.
func (c *Cooldown) Allow(key string) bool {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if last, ok := c.last[key]; ok && now.Sub(last) < c.window {
		return false
	}
	c.last[key] = now
	return true
}

// Len returns the number of tracked client keys.
func (c *Cooldown) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.last)
}

// sweep evicts entries whose window has fully elapsed. Such an entry can no
// longer cause a rejection, so removing it does not change observable
// behavior; it only keeps the key space from growing for the lifetime of the
// process.
func (c *Cooldown) sweep() {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, last := range c.last {
		if now.Sub(last) >= c.window {
			delete(c.last, key)
		}
	}
}

// StartSweeper launches a background goroutine that periodically evicts stale
// entries. It stops when the stop channel is closed.
func (c *Cooldown) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				log.Println("Cooldown sweeper stopped.")
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}
