// Package window hosts the orchestrator that drives the windowed payment
// graph: admission, degree deltas, eviction, and the median query, in that
// order, as one atomic transaction per event.
package window

import (
	"context"
	"fmt"

	graph "github.com/okian/medgraph/internal/domain/graph"
	median "github.com/okian/medgraph/internal/domain/median"
	"github.com/okian/medgraph/internal/domain/model"
)

// DefaultSpan is the trailing window length in the timestamp unit (seconds).
const DefaultSpan = 60

// Result is the per-event outcome. Accepted is false for events rejected
// below the window floor and for self-loops; Median then carries the prior
// value unchanged. An empty population reports the 0.0 sentinel.
// Created reports whether the event added a new edge; Evicted counts edges
// the event pushed out of the window.
type Result struct {
	Median   float64
	Accepted bool
	Created  bool
	Evicted  int
}

// Stats is a point-in-time snapshot of engine state for read surfaces.
type Stats struct {
	ActiveEdges    int
	ActiveVertices int
	LatestTS       int64
	WindowFloor    int64
	Median         float64
}

// Engine processes events strictly one at a time and owns the edge store,
// ledger, histogram, and tracker outright. It is deliberately lock-free and
// NOT safe for concurrent use: callers must serialize events (a single
// consumer goroutine, see adapters/mq/processor).
type Engine struct {
	span    int64
	store   *graph.EdgeStore
	ledger  *graph.Ledger
	tracker *median.Tracker

	latest int64 // max timestamp accepted so far
	primed bool  // false until the first event is accepted
	last   Result
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithSpan sets the window span in timestamp units. Values below one are
// ignored.
func WithSpan(span int64) Option {
	return func(e *Engine) {
		if span >= 1 {
			e.span = span
		}
	}
}

// New constructs an engine with an empty graph.
func New(opts ...Option) *Engine {
	e := &Engine{
		span: DefaultSpan,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.store = graph.NewEdgeStore()
	e.ledger = graph.NewLedger()
	e.tracker = median.NewTracker(e.ledger.Histogram())
	return e
}

// Span returns the configured window span.
func (e *Engine) Span() int64 {
	return e.span
}

// Process runs one event through the admit -> degree -> evict -> median
// sequence. The context argument satisfies the project-wide convention;
// the work is bounded and non-blocking so it is never consulted.
//
// A returned error means the internal bookkeeping invariants were violated
// (degree underflow); the engine state is unusable afterwards and the
// caller must treat it as fatal.
func (e *Engine) Process(_ context.Context, ev model.Event) (Result, error) {
	// Self-relationships are not a modeled case: no structural change, the
	// previous median is re-emitted.
	if ev.SelfLoop() {
		return e.rejected(), nil
	}

	// Events below the current window floor are silently rejected. "Late"
	// means older than the floor, not older than the latest timestamp.
	if e.primed && ev.TS < e.floor() {
		return e.rejected(), nil
	}

	ch := e.store.Admit(model.NewPair(ev.Actor, ev.Target), ev.TS)
	if ch.Op == model.Created {
		if err := e.shift(ev.Actor, +1); err != nil {
			return Result{}, err
		}
		if err := e.shift(ev.Target, +1); err != nil {
			return Result{}, err
		}
	}

	if !e.primed || ev.TS > e.latest {
		e.latest = ev.TS
		e.primed = true
	}

	evicted := e.store.EvictOlderThan(e.floor())
	for _, rm := range evicted {
		if err := e.shift(rm.Pair.A, -1); err != nil {
			return Result{}, err
		}
		if err := e.shift(rm.Pair.B, -1); err != nil {
			return Result{}, err
		}
	}

	m, _ := e.tracker.Median()
	e.last = Result{
		Median:   m,
		Accepted: true,
		Created:  ch.Op == model.Created,
		Evicted:  len(evicted),
	}
	return e.last, nil
}

// Stats returns a snapshot of the engine's current state.
func (e *Engine) Stats() Stats {
	m, _ := e.tracker.Median()
	s := Stats{
		ActiveEdges:    e.store.Len(),
		ActiveVertices: e.ledger.Vertices(),
		Median:         m,
	}
	if e.primed {
		s.LatestTS = e.latest
		s.WindowFloor = e.floor()
	}
	return s
}

// floor returns the inclusive lower bound of the active window.
func (e *Engine) floor() int64 {
	return e.latest - e.span + 1
}

// shift applies one degree delta through the ledger and tracker together.
func (e *Engine) shift(vertex string, delta int) error {
	d, err := e.ledger.ApplyDelta(vertex, delta)
	if err != nil {
		return fmt.Errorf("window engine: %w", err)
	}
	e.tracker.Apply(d)
	return nil
}

// rejected re-emits the last median without touching any state.
func (e *Engine) rejected() Result {
	return Result{Median: e.last.Median, Accepted: false}
}
