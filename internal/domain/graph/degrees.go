package graph

import "fmt"

// Delta is a single ±1 degree transition for one vertex. Old or New is zero
// when the vertex enters or leaves the active population; a vertex never
// moves by more than one degree per transition, which is the property the
// median tracker's incremental rebalancing depends on.
type Delta struct {
	Vertex string
	Old    int
	New    int
}

// Ledger maps each active vertex to its degree. Vertices at degree zero are
// removed entirely; only vertices touched by at least one active edge count
// toward the median population.
type Ledger struct {
	degrees map[string]int
	hist    *Histogram
}

// NewLedger returns an empty ledger wired to a fresh histogram.
func NewLedger() *Ledger {
	return &Ledger{
		degrees: make(map[string]int),
		hist:    NewHistogram(),
	}
}

// ApplyDelta moves vertex by delta (must be +1 or -1) and returns the
// transition. The histogram is updated in the same step so no intermediate
// state is observable. Decrementing an absent vertex violates the
// edge-store/ledger coordination contract and returns ErrDegreeUnderflow.
func (l *Ledger) ApplyDelta(vertex string, delta int) (Delta, error) {
	if delta != 1 && delta != -1 {
		return Delta{}, fmt.Errorf("%w: %d", ErrInvalidDelta, delta)
	}

	old := l.degrees[vertex]
	if old == 0 && delta < 0 {
		return Delta{}, fmt.Errorf("%w: vertex %q", ErrDegreeUnderflow, vertex)
	}

	n := old + delta
	if n == 0 {
		delete(l.degrees, vertex)
	} else {
		l.degrees[vertex] = n
	}
	l.hist.move(old, n)

	return Delta{Vertex: vertex, Old: old, New: n}, nil
}

// Degree returns the current degree of vertex (zero if inactive).
func (l *Ledger) Degree(vertex string) int {
	return l.degrees[vertex]
}

// Vertices returns the number of active vertices.
func (l *Ledger) Vertices() int {
	return len(l.degrees)
}

// DegreeSum returns the sum of all degrees. By the handshake identity it
// equals twice the number of active edges.
func (l *Ledger) DegreeSum() int {
	sum := 0
	for _, d := range l.degrees {
		sum += d
	}
	return sum
}

// Histogram returns the degree histogram backing this ledger.
func (l *Ledger) Histogram() *Histogram {
	return l.hist
}

// Histogram counts vertices per degree value. Buckets that reach zero are
// deleted so memory is bounded by the number of distinct degrees in use,
// not the maximum degree value.
type Histogram struct {
	buckets map[int]int
}

// NewHistogram returns an empty histogram.
func NewHistogram() *Histogram {
	return &Histogram{buckets: make(map[int]int)}
}

// Count returns the number of vertices holding degree d.
func (h *Histogram) Count(d int) int {
	return h.buckets[d]
}

// Population returns the total vertex count across all buckets.
func (h *Histogram) Population() int {
	n := 0
	for _, c := range h.buckets {
		n += c
	}
	return n
}

// Buckets returns a copy of the bucket map, for diagnostics and tests.
func (h *Histogram) Buckets() map[int]int {
	out := make(map[int]int, len(h.buckets))
	for d, c := range h.buckets {
		out[d] = c
	}
	return out
}

// move shifts one vertex from bucket old to bucket new. Degree zero is the
// out-of-population sentinel on either side.
func (h *Histogram) move(old, n int) {
	if old > 0 {
		h.buckets[old]--
		if h.buckets[old] == 0 {
			delete(h.buckets, old)
		}
	}
	if n > 0 {
		h.buckets[n]++
	}
}
