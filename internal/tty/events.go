package tty

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

const eventBufferSize = 1024

// eventBus is a multi-producer, multi-consumer broadcast of SignalEvent
// values (spec.md §4.6). Publication never blocks the sender: subscribers
// that fall behind the per-subscriber buffer simply miss messages.
type eventBus struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]chan SignalEvent
}

func newEventBus() *eventBus {
	return &eventBus{subscribers: make(map[uuid.UUID]chan SignalEvent)}
}

// subscribe registers a new receiver and returns it. The receiver is keyed
// by a uuid handle that appears only in log lines; it is not returned, and
// a subscriber cannot be removed once registered.
func (b *eventBus) subscribe() <-chan SignalEvent {
	ch := make(chan SignalEvent, eventBufferSize)
	id := uuid.New()

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	slog.Debug("signal subscriber attached", "subscriber_id", id)
	return ch
}

// publish fans a signal event out to every subscriber without blocking.
func (b *eventBus) publish(evt SignalEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
			slog.Debug("dropping signal event for lagging subscriber", "subscriber_id", id)
		}
	}
}

// statsTracker holds the engine-wide TtyStats counters under a coarse
// lock. Writers are on the hot path (I/O gateway, control plane, monitor);
// readers are only for observability, so contention is acceptable.
type statsTracker struct {
	mu    sync.Mutex
	stats TtyStats
}

func newStatsTracker() *statsTracker { return &statsTracker{} }

func (t *statsTracker) incCreated() {
	t.mu.Lock()
	t.stats.SessionsCreated++
	t.mu.Unlock()
}

func (t *statsTracker) incDestroyed() {
	t.mu.Lock()
	t.stats.SessionsDestroyed++
	t.mu.Unlock()
}

func (t *statsTracker) addBytesRead(n uint64) {
	t.mu.Lock()
	t.stats.TotalBytesRead += n
	t.mu.Unlock()
}

func (t *statsTracker) addBytesWritten(n uint64) {
	t.mu.Lock()
	t.stats.TotalBytesWritten += n
	t.mu.Unlock()
}

func (t *statsTracker) incSignalCount() {
	t.mu.Lock()
	t.stats.SignalCount++
	t.mu.Unlock()
}

func (t *statsTracker) incErrors() {
	t.mu.Lock()
	t.stats.Errors++
	t.mu.Unlock()
}

func (t *statsTracker) snapshot() TtyStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}
