// Package model contains domain models passed between layers.
package model

// Event represents a single payment between two participants.
// Timestamps are discrete unix seconds; the window is anchored to the
// largest timestamp accepted so far, never to the processing clock.
type Event struct {
	EventID string // unique id for ingest idempotency (may be empty in batch mode)
	Actor   string // paying participant
	Target  string // receiving participant
	TS      int64  // event time, unix seconds
}

// SelfLoop reports whether the event names the same participant twice.
func (e Event) SelfLoop() bool {
	return e.Actor == e.Target
}

// Pair is an unordered vertex pair identifying one edge. Construct it with
// NewPair so that (a,b) and (b,a) map to the same key.
type Pair struct {
	A, B string
}

// NewPair returns the normalized pair for two vertices.
func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// ChangeOp enumerates the structural outcomes of an edge-store operation.
type ChangeOp int

const (
	// Created means a new edge appeared; both endpoints gain a degree.
	Created ChangeOp = iota
	// Refreshed means an existing edge got a newer timestamp; degrees unchanged.
	Refreshed
	// Stale means a duplicate carried an older timestamp than the stored edge;
	// nothing changed (the most recent contact governs eviction ordering).
	Stale
	// Removed means the edge fell out of the window; both endpoints lose a degree.
	Removed
)

// Change records one structural mutation of the edge store. The window
// engine translates Created/Removed changes into degree deltas.
type Change struct {
	Op   ChangeOp
	Pair Pair
	TS   int64
}
