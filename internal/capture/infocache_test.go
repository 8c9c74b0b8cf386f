package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarishgunaS/sisypho-sdk/internal/model"
)

func TestElementInfoCache_HitWithinTTL(t *testing.T) {
	c := NewElementInfoCache(100*time.Millisecond, 100)
	now := time.Now()
	snap := model.ElementSnapshot{Role: "Button", Title: "Send"}

	c.Store(10.2, 20.7, snap, nil, now)

	// Same rounded pixel, different sub-pixel coordinates.
	got, _, ok := c.Lookup(10.4, 20.9, now.Add(50*time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, snap, got)
}

func TestElementInfoCache_StaleEntryEvictedOnRead(t *testing.T) {
	c := NewElementInfoCache(100*time.Millisecond, 100)
	now := time.Now()
	c.Store(10, 20, model.ElementSnapshot{Role: "Button"}, nil, now)

	_, _, ok := c.Lookup(10, 20, now.Add(150*time.Millisecond))
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "stale entry should be removed on read")
}

func TestElementInfoCache_EvictsOldestOverCapacity(t *testing.T) {
	c := NewElementInfoCache(time.Hour, 100)
	now := time.Now()
	for i := 0; i < 150; i++ {
		c.Store(float64(i), 0, model.ElementSnapshot{Role: "Button"}, nil, now.Add(time.Duration(i)*time.Millisecond))
	}
	assert.LessOrEqual(t, c.Len(), 100)

	_, _, ok := c.Lookup(0, 0, now.Add(200*time.Millisecond))
	assert.False(t, ok, "oldest entry should have been evicted")
	_, _, ok = c.Lookup(149, 0, now.Add(200*time.Millisecond))
	assert.True(t, ok, "newest entry should survive")
}
