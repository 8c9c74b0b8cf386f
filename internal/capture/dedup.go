// Package capture implements the event capture pipeline: deduplication of
// raw input events, short-lived element-info caching, the bounded captured
// event queue, and the engine tying them to the platform tap.
package capture

import (
	"math"
	"sync"
	"time"

	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

// Dedup defaults: the platform sometimes delivers the same physical action
// through multiple channels within a few milliseconds.
const (
	DefaultDedupWindow   = 100 * time.Millisecond
	DefaultDedupCapacity = 100
)

// EventKey fingerprints a raw input event for dedup set membership. Two raw
// events with the same key inside the dedup window are one physical action.
// Keys are never persisted.
type EventKey struct {
	Kind   platform.RawKind
	Source string
	X, Y   int // rounded screen location
	Code   int // key code or button number, whichever applies
}

// KeyFor derives the dedup fingerprint of a raw event.
func KeyFor(ev platform.RawEvent) EventKey {
	code := ev.Button
	if ev.Kind == platform.RawKeyDown || ev.Kind == platform.RawFlagsChanged {
		code = ev.KeyCode
	}
	return EventKey{
		Kind:   ev.Kind,
		Source: ev.Source,
		X:      int(math.Round(ev.X)),
		Y:      int(math.Round(ev.Y)),
		Code:   code,
	}
}

// DedupCache is a sliding-window set of recently seen event keys, capped in
// size. It is mutated from the tap thread and background workers, so all
// access goes through the mutex.
type DedupCache struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	seen   map[EventKey]time.Time
}

// NewDedupCache creates a cache; zero arguments select the defaults.
func NewDedupCache(window time.Duration, max int) *DedupCache {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	if max <= 0 {
		max = DefaultDedupCapacity
	}
	return &DedupCache{
		window: window,
		max:    max,
		seen:   make(map[EventKey]time.Time, max),
	}
}

// Observe records a sighting of key at now. It returns true when the key is
// new within the window (the event should be processed) and false for a
// duplicate (the event should be dropped). Entries older than the window are
// pruned, and the set is capped by evicting the oldest entries.
func (c *DedupCache) Observe(key EventKey, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := now.Add(-c.window)
	for k, at := range c.seen {
		if at.Before(cutoff) {
			delete(c.seen, k)
		}
	}

	if _, ok := c.seen[key]; ok {
		return false
	}
	c.seen[key] = now

	for len(c.seen) > c.max {
		var oldestKey EventKey
		var oldest time.Time
		first := true
		for k, at := range c.seen {
			if first || at.Before(oldest) {
				oldestKey, oldest = k, at
				first = false
			}
		}
		delete(c.seen, oldestKey)
	}
	return true
}

// Len returns the current number of tracked keys.
func (c *DedupCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
