// Package median maintains the median of the active-vertex degree
// distribution incrementally, without re-sorting on updates.
package median

import graph "github.com/okian/medgraph/internal/domain/graph"

// Tracker keeps a reference bucket into the degree histogram positioned at
// the lower median rank. It relies on two facts guaranteed upstream: every
// transition moves exactly one vertex between adjacent buckets
// (|new-old| == 1), and the population changes by at most one per
// transition. Under those constraints the reference bucket needs at most a
// short walk per update, amortized O(1).
//
// Not safe for concurrent use; owned by the window engine.
type Tracker struct {
	hist *graph.Histogram

	n     int // active population (vertices with degree >= 1)
	r     int // reference degree: smallest degree whose cumulative count reaches the lower median rank
	below int // vertices with degree < r
}

// NewTracker returns a tracker reading bucket counts from hist. The
// histogram must be the same one the ledger mutates, and every ledger
// transition must be forwarded via Apply.
func NewTracker(hist *graph.Histogram) *Tracker {
	return &Tracker{hist: hist}
}

// Apply reacts to one degree transition already reflected in the
// histogram. Old or New of zero means the vertex entered or left the
// population.
func (t *Tracker) Apply(d graph.Delta) {
	if d.Old > 0 {
		if d.Old < t.r {
			t.below--
		}
	} else {
		t.n++
	}
	if d.New > 0 {
		if d.New < t.r {
			t.below++
		}
	} else {
		t.n--
	}
	t.rebalance()
}

// rebalance restores below < ceil(n/2) <= below + hist[r] by stepping the
// reference bucket one degree at a time. Empty buckets are skipped
// implicitly: their count contributes nothing to the walk.
func (t *Tracker) rebalance() {
	if t.n == 0 {
		t.r, t.below = 0, 0
		return
	}
	rank := (t.n + 1) / 2
	for t.below >= rank {
		t.r--
		t.below -= t.hist.Count(t.r)
	}
	for t.below+t.hist.Count(t.r) < rank {
		t.below += t.hist.Count(t.r)
		t.r++
	}
}

// Median returns the current median degree. The second return is false
// when the population is empty (callers report a sentinel, conventionally
// 0.0).
func (t *Tracker) Median() (float64, bool) {
	if t.n == 0 {
		return 0, false
	}
	if t.n%2 == 1 {
		return float64(t.r), true
	}
	// Even population: the reference bucket holds the lower median
	// (rank n/2). The upper median is in the same bucket unless the bucket
	// is exhausted at exactly the lower rank, in which case it is the next
	// populated bucket above.
	upper := t.r
	if t.below+t.hist.Count(t.r) < t.n/2+1 {
		upper = t.r + 1
		for t.hist.Count(upper) == 0 {
			upper++
		}
	}
	return float64(t.r+upper) / 2, true
}

// Population returns the number of vertices the median ranges over.
func (t *Tracker) Population() int {
	return t.n
}
