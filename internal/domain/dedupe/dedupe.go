// Package dedupe defines the interface for ingest idempotency tracking.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen event IDs to ensure at-most-once ingestion.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen list, allowing it to be retried.
	// Used when an event was marked seen but failed to enqueue
	// (backpressure).
	Unrecord(ctx context.Context, id string)

	// Size returns the number of IDs currently tracked.
	Size() int64
}

// inMemoryDeduper implements Deduper with a map plus a fixed-capacity FIFO
// ring of insertion order. When the ring is full the oldest id is evicted;
// recent ids are the ones that realistically get retried, so oldest-first
// eviction keeps the useful part of the history. maxSize <= 0 means
// unbounded (map only, no eviction).
//
// Map values mark liveness: true means seen, false means the id was
// unrecorded but its ring slot has not been evicted yet. An id never holds
// more than one ring slot; re-recording an unrecorded id revives its
// existing slot instead of appending a second one, so evicting a slot
// always retires exactly that id.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]bool
	live    int
	ring    []string // insertion order, valid entries in [tailIdx, tailIdx+count)
	tailIdx int      // oldest slot
	count   int
	maxSize int
}

// NewInMemoryDeduper creates a deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]bool)
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if isLive, ok := d.seen[id]; ok {
		if isLive {
			return true
		}
		// Unrecorded id still holding its old ring slot: revive it in place.
		d.seen[id] = true
		d.live++
		return false
	}

	if d.maxSize > 0 {
		if d.count == d.maxSize {
			d.evictOldest()
		}
		head := (d.tailIdx + d.count) % d.maxSize
		d.ring[head] = id
		d.count++
	}
	d.seen[id] = true
	d.live++
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	isLive, ok := d.seen[id]
	if !ok || !isLive {
		return
	}
	d.live--
	if d.maxSize <= 0 {
		delete(d.seen, id)
		return
	}
	// Keep the map entry so the ring slot stays bound to this id; a
	// re-record revives it instead of taking a second slot.
	d.seen[id] = false
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(d.live)
}

// evictOldest frees the oldest ring slot and retires its id, live or not.
// Must be called with d.mu held and the ring full.
func (d *inMemoryDeduper) evictOldest() {
	id := d.ring[d.tailIdx]
	d.ring[d.tailIdx] = ""
	d.tailIdx = (d.tailIdx + 1) % d.maxSize
	d.count--
	if isLive, ok := d.seen[id]; ok {
		if isLive {
			d.live--
		}
		delete(d.seen, id)
	}
}
