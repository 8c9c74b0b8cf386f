package capture

import (
	"sync"
	"time"

	"github.com/HarishgunaS/sisypho-sdk/internal/model"
)

// Queue defaults: on overflow the oldest events are dropped in one batch
// rather than per push, amortizing the compaction.
const (
	DefaultQueueCapacity = 500
	queueEvictBatch      = 100
)

// QueueStats summarizes the queue contents without draining it.
type QueueStats struct {
	Count    int            `json:"count"`
	ByKind   map[string]int `json:"by_kind"`
	BySource map[string]int `json:"by_source"`
	Oldest   *time.Time     `json:"oldest,omitempty"`
	Newest   *time.Time     `json:"newest,omitempty"`
}

// EventQueue is a capped, concurrent FIFO of captured events. Appends come
// from the capture engine; reads and clears come from the external
// transport. A drain is atomic with respect to concurrent appends: events
// pushed after the snapshot is taken belong to the next read.
type EventQueue struct {
	mu       sync.Mutex
	events   []model.CapturedEvent
	capacity int
}

// NewEventQueue creates a queue; capacity <= 0 selects the default.
func NewEventQueue(capacity int) *EventQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &EventQueue{capacity: capacity}
}

// Push appends an event. When the queue exceeds its capacity, the oldest
// batch of events is dropped in one pass.
func (q *EventQueue) Push(ev model.CapturedEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.events = append(q.events, ev)
	if len(q.events) > q.capacity {
		drop := queueEvictBatch
		if drop > len(q.events) {
			drop = len(q.events)
		}
		remaining := make([]model.CapturedEvent, len(q.events)-drop)
		copy(remaining, q.events[drop:])
		q.events = remaining
	}
}

// Snapshot returns a copy of the queued events without clearing them.
func (q *EventQueue) Snapshot() []model.CapturedEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]model.CapturedEvent, len(q.events))
	copy(out, q.events)
	return out
}

// Drain atomically snapshots and clears the queue.
func (q *EventQueue) Drain() []model.CapturedEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}

// Clear discards all queued events.
func (q *EventQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = nil
}

// Count returns the number of queued events.
func (q *EventQueue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Stats returns counts grouped by kind and source plus the time range.
func (q *EventQueue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()

	stats := QueueStats{
		Count:    len(q.events),
		ByKind:   make(map[string]int),
		BySource: make(map[string]int),
	}
	for _, ev := range q.events {
		stats.ByKind[ev.Kind]++
		if ev.Source != "" {
			stats.BySource[ev.Source]++
		}
	}
	if len(q.events) > 0 {
		oldest := q.events[0].Timestamp
		newest := q.events[len(q.events)-1].Timestamp
		stats.Oldest = &oldest
		stats.Newest = &newest
	}
	return stats
}
