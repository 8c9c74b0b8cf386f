package capture

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HarishgunaS/sisypho-sdk/internal/model"
	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

// workQueueSize bounds the backlog of non-mouse events awaiting background
// processing. The tap callback never blocks on a full backlog; it drops.
const workQueueSize = 256

// Config tunes the capture engine. Zero values select the defaults from this
// package.
type Config struct {
	DedupWindow   time.Duration
	DedupCapacity int
	InfoTTL       time.Duration
	InfoCapacity  int
	QueueCapacity int
}

// Engine owns all capture state: the dedup cache, the element-info cache,
// and the event queue. It is constructed once and passed by handle; there
// are no package-level singletons.
type Engine struct {
	reader   platform.TreeReader
	tap      platform.EventTap
	observer platform.Observer
	log      *slog.Logger

	dedup *DedupCache
	info  *ElementInfoCache
	queue *EventQueue

	work chan platform.RawEvent
	done chan struct{}
	wg   sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewEngine creates a capture engine. The tap and observer may be nil when
// events are fed through HandleRaw or HandleNotification directly (tests,
// replay).
func NewEngine(reader platform.TreeReader, tap platform.EventTap, observer platform.Observer, cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		reader:   reader,
		tap:      tap,
		observer: observer,
		log:      log,
		dedup:    NewDedupCache(cfg.DedupWindow, cfg.DedupCapacity),
		info:     NewElementInfoCache(cfg.InfoTTL, cfg.InfoCapacity),
		queue:    NewEventQueue(cfg.QueueCapacity),
		work:     make(chan platform.RawEvent, workQueueSize),
		done:     make(chan struct{}),
	}
}

// Queue exposes the captured event queue to the transport layer.
func (e *Engine) Queue() *EventQueue { return e.queue }

// Start installs the tap, registers the observer, and launches the
// background worker. The engine stops when ctx is canceled or Stop is called.
func (e *Engine) Start(ctx context.Context) error {
	var startErr error
	e.startOnce.Do(func() {
		e.wg.Add(1)
		go e.worker()

		if e.tap != nil {
			if err := e.tap.Start(e.HandleRaw); err != nil {
				startErr = fmt.Errorf("start event tap: %w", err)
				e.Stop()
				return
			}
		}

		// The observer is a supplemental source; capture still works on the
		// tap alone when registration fails (e.g. no focused application).
		if e.observer != nil {
			if err := e.observer.Start(e.HandleNotification); err != nil {
				e.log.Warn("accessibility observer unavailable", "error", err)
			}
		}

		go func() {
			select {
			case <-ctx.Done():
				e.Stop()
			case <-e.done:
			}
		}()
		e.log.Info("capture engine started")
	})
	return startErr
}

// Stop removes the tap and stops the worker. Idempotent.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		if e.tap != nil {
			e.tap.Stop()
		}
		if e.observer != nil {
			e.observer.Stop()
		}
		close(e.done)
		e.wg.Wait()
		e.log.Info("capture engine stopped")
	})
}

// HandleRaw is the tap entry point. It runs on the tap callback thread and
// must return quickly: a slow return here visibly degrades system input.
// Only fingerprinting and dedup happen inline; mouse up/down additionally
// resolve the element synchronously because interactive latency matters for
// clicks, while keyboard, scroll, and modifier events are handed to the
// background worker.
func (e *Engine) HandleRaw(ev platform.RawEvent) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	if !e.dedup.Observe(KeyFor(ev), ev.Time) {
		return
	}

	if ev.Kind.IsMouse() {
		e.process(ev)
		return
	}
	select {
	case e.work <- ev:
	default:
		e.log.Warn("capture backlog full, dropping event", "kind", ev.Kind.String())
	}
}

// HandleNotification ingests an accessibility-observer notification (value
// changed, focus moved) as an "accessibility" event correlated with the
// given element.
func (e *Engine) HandleNotification(name string, el platform.Element, at time.Time) {
	if at.IsZero() {
		at = time.Now()
	}
	snap := model.UnknownSnapshot()
	if el != nil {
		if s, err := e.reader.Info(el); err == nil {
			snap = s
		}
	}
	details := map[string]string{"notification": name}
	addElementDetails(details, snap)
	e.queue.Push(model.CapturedEvent{
		ID:        uuid.NewString(),
		Timestamp: at,
		Kind:      model.KindAccessibility,
		Source:    "observer",
		Details:   details,
	})
}

func (e *Engine) worker() {
	defer e.wg.Done()
	for {
		select {
		case ev := <-e.work:
			e.process(ev)
		case <-e.done:
			return
		}
	}
}

// process resolves the element under the event and enqueues the normalized
// record. A failed tree read degrades to an Unknown element; capture never
// aborts on a single bad read.
func (e *Engine) process(ev platform.RawEvent) {
	snap := e.snapshotAt(ev.X, ev.Y, ev.Time)

	details := map[string]string{
		"x":         strconv.FormatFloat(ev.X, 'f', 1, 64),
		"y":         strconv.FormatFloat(ev.Y, 'f', 1, 64),
		"raw_kind":  ev.Kind.String(),
		"modifiers": strconv.FormatUint(ev.Modifiers, 10),
	}
	switch ev.Kind {
	case platform.RawMouseDown, platform.RawMouseUp:
		details["button"] = strconv.Itoa(ev.Button)
	case platform.RawKeyDown, platform.RawFlagsChanged:
		details["key_code"] = strconv.Itoa(ev.KeyCode)
	case platform.RawScroll:
		details["scroll_dx"] = strconv.Itoa(ev.ScrollDX)
		details["scroll_dy"] = strconv.Itoa(ev.ScrollDY)
	}
	addElementDetails(details, snap)

	e.queue.Push(model.CapturedEvent{
		ID:        uuid.NewString(),
		Timestamp: ev.Time,
		Kind:      kindFor(ev.Kind),
		Source:    ev.Source,
		Details:   details,
	})
}

// snapshotAt returns the element snapshot under a screen location, consulting
// the info cache first and falling back to a live tree read.
func (e *Engine) snapshotAt(x, y float64, now time.Time) model.ElementSnapshot {
	if snap, _, ok := e.info.Lookup(x, y, now); ok {
		return snap
	}
	el, err := e.reader.ElementAt(x, y)
	if err != nil {
		e.log.Debug("element lookup failed", "x", x, "y", y, "error", err)
		return model.UnknownSnapshot()
	}
	snap, err := e.reader.Info(el)
	if err != nil {
		e.log.Debug("element read failed", "x", x, "y", y, "error", err)
		return model.UnknownSnapshot()
	}
	e.info.Store(x, y, snap, el, now)
	return snap
}

// kindFor maps a raw tap kind to the captured event kind.
func kindFor(k platform.RawKind) string {
	switch k {
	case platform.RawMouseDown, platform.RawMouseUp:
		return model.KindClick
	case platform.RawKeyDown:
		return model.KindKeyboard
	case platform.RawFlagsChanged:
		return model.KindModifier
	case platform.RawScroll:
		return model.KindScroll
	default:
		return model.KindAccessibility
	}
}

func addElementDetails(details map[string]string, snap model.ElementSnapshot) {
	details["element_role"] = snap.Role
	if text := snap.DisplayText(); text != "" {
		details["element_text"] = text
	}
	if snap.App != "" {
		details["app"] = snap.App
	}
	if snap.BundleID != "" {
		details["bundle_id"] = snap.BundleID
	}
	if snap.PID != 0 {
		details["pid"] = strconv.Itoa(snap.PID)
	}
}
