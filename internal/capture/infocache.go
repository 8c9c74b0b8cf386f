package capture

import (
	"math"
	"sync"
	"time"

	"github.com/HarishgunaS/sisypho-sdk/internal/model"
	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

// Element-info cache defaults. 100 ms is long enough to absorb the burst of
// events one physical interaction produces and short enough that the UI
// under the cursor has not meaningfully changed.
const (
	DefaultInfoTTL      = 100 * time.Millisecond
	DefaultInfoCapacity = 100
)

// cachedInfo is an element snapshot plus its capture time and screen
// location. Stale entries are evicted on read.
type cachedInfo struct {
	snap model.ElementSnapshot
	el   platform.Element
	at   time.Time
}

type pointKey struct {
	X, Y int
}

func keyForPoint(x, y float64) pointKey {
	return pointKey{X: int(math.Round(x)), Y: int(math.Round(y))}
}

// ElementInfoCache caches element snapshots by rounded screen location so the
// tap callback rarely pays for a full tree read. Entries go stale after the
// TTL; when the cache exceeds its capacity, the oldest entries by timestamp
// are evicted.
type ElementInfoCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	entries map[pointKey]cachedInfo
}

// NewElementInfoCache creates a cache; zero arguments select the defaults.
func NewElementInfoCache(ttl time.Duration, max int) *ElementInfoCache {
	if ttl <= 0 {
		ttl = DefaultInfoTTL
	}
	if max <= 0 {
		max = DefaultInfoCapacity
	}
	return &ElementInfoCache{
		ttl:     ttl,
		max:     max,
		entries: make(map[pointKey]cachedInfo, max),
	}
}

// Lookup returns the cached snapshot for the location, if present and fresh.
// Stale entries are removed on the way out.
func (c *ElementInfoCache) Lookup(x, y float64, now time.Time) (model.ElementSnapshot, platform.Element, bool) {
	key := keyForPoint(x, y)
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return model.ElementSnapshot{}, nil, false
	}
	if now.Sub(entry.at) > c.ttl {
		delete(c.entries, key)
		return model.ElementSnapshot{}, nil, false
	}
	return entry.snap, entry.el, true
}

// Store caches a snapshot for the location, evicting oldest-by-timestamp when
// the cache grows past its capacity.
func (c *ElementInfoCache) Store(x, y float64, snap model.ElementSnapshot, el platform.Element, now time.Time) {
	key := keyForPoint(x, y)
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cachedInfo{snap: snap, el: el, at: now}

	for len(c.entries) > c.max {
		var oldestKey pointKey
		var oldest time.Time
		first := true
		for k, e := range c.entries {
			if first || e.at.Before(oldest) {
				oldestKey, oldest = k, e.at
				first = false
			}
		}
		delete(c.entries, oldestKey)
	}
}

// Len returns the current number of cached locations.
func (c *ElementInfoCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
