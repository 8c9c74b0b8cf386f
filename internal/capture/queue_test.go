package capture

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarishgunaS/sisypho-sdk/internal/model"
)

func eventN(n int) model.CapturedEvent {
	return model.CapturedEvent{
		ID:        strconv.Itoa(n),
		Timestamp: time.Unix(int64(n), 0),
		Kind:      model.KindClick,
		Source:    "tap",
	}
}

func TestEventQueue_BoundedWithBatchEviction(t *testing.T) {
	q := NewEventQueue(500)
	for i := 1; i <= 600; i++ {
		q.Push(eventN(i))
	}
	events := q.Snapshot()
	require.LessOrEqual(t, len(events), 500)

	// Overflow drops the oldest batch; what remains is the most recent
	// contiguous suffix of pushes.
	last := events[len(events)-1]
	assert.Equal(t, "600", last.ID)
	for i := 1; i < len(events); i++ {
		prev, _ := strconv.Atoi(events[i-1].ID)
		curr, _ := strconv.Atoi(events[i].ID)
		require.Equal(t, prev+1, curr, "queue must stay contiguous after eviction")
	}
}

func TestEventQueue_DrainIsSnapshotAndClear(t *testing.T) {
	q := NewEventQueue(500)
	for i := 1; i <= 3; i++ {
		q.Push(eventN(i))
	}
	drained := q.Drain()
	assert.Len(t, drained, 3)
	assert.Equal(t, 0, q.Count())

	q.Push(eventN(4))
	assert.Equal(t, 1, q.Count(), "events pushed after a drain belong to the next read")
}

func TestEventQueue_ConcurrentPushAndDrainLosesNothing(t *testing.T) {
	const pushers = 4
	const perPusher = 200
	q := NewEventQueue(pushers*perPusher + 1) // no eviction in this test

	var wg sync.WaitGroup
	seen := make(map[string]bool)
	var seenMu sync.Mutex
	collect := func(events []model.CapturedEvent) {
		seenMu.Lock()
		defer seenMu.Unlock()
		for _, ev := range events {
			require.False(t, seen[ev.ID], "event %s drained twice", ev.ID)
			seen[ev.ID] = true
		}
	}

	for p := 0; p < pushers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perPusher; i++ {
				q.Push(eventN(p*perPusher + i))
			}
		}(p)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			collect(q.Drain())
		}
	}()
	wg.Wait()
	<-done
	collect(q.Drain())

	assert.Len(t, seen, pushers*perPusher)
}

func TestEventQueue_Stats(t *testing.T) {
	q := NewEventQueue(500)
	q.Push(model.CapturedEvent{ID: "1", Kind: model.KindClick, Source: "tap", Timestamp: time.Unix(100, 0)})
	q.Push(model.CapturedEvent{ID: "2", Kind: model.KindClick, Source: "tap", Timestamp: time.Unix(101, 0)})
	q.Push(model.CapturedEvent{ID: "3", Kind: model.KindKeyboard, Source: "observer", Timestamp: time.Unix(102, 0)})

	stats := q.Stats()
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 2, stats.ByKind[model.KindClick])
	assert.Equal(t, 1, stats.ByKind[model.KindKeyboard])
	assert.Equal(t, 2, stats.BySource["tap"])
	require.NotNil(t, stats.Oldest)
	require.NotNil(t, stats.Newest)
	assert.Equal(t, time.Unix(100, 0), *stats.Oldest)
	assert.Equal(t, time.Unix(102, 0), *stats.Newest)

	// Stats is non-destructive.
	assert.Equal(t, 3, q.Count())
}
