package server

import (
	"sync"
	"time"

	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

// rootCache provides a TTL-based cache for the frontmost application's root
// element, so bursts of tool calls don't re-query the platform for every
// request. Write actions invalidate it.
type rootCache struct {
	mu   sync.Mutex
	ttl  time.Duration
	root platform.Element
	at   time.Time
}

// newRootCache creates a cache. A ttl of 0 disables caching.
func newRootCache(ttl time.Duration) *rootCache {
	return &rootCache{ttl: ttl}
}

// Root returns the cached root if within TTL, otherwise reads fresh.
func (c *rootCache) Root(reader platform.TreeReader) (platform.Element, error) {
	if c.ttl == 0 {
		return reader.ApplicationRoot()
	}

	c.mu.Lock()
	if c.root != nil && time.Since(c.at) < c.ttl {
		root := c.root
		c.mu.Unlock()
		return root, nil
	}
	c.mu.Unlock()

	root, err := reader.ApplicationRoot()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.root = root
	c.at = time.Now()
	c.mu.Unlock()

	return root, nil
}

// Invalidate clears the cached root.
func (c *rootCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.root = nil
}
