// Package graph holds the windowed payment graph: the time-ordered edge
// store and the per-vertex degree bookkeeping.
//
// The structures here are exclusively owned by the window engine and are
// not safe for concurrent use; callers serialize access (one event at a
// time, see internal/domain/window).
package graph

import "github.com/okian/medgraph/internal/domain/model"

// edgeNode is one active edge in the intrusive, timestamp-ordered list.
type edgeNode struct {
	pair model.Pair
	ts   int64
	prev *edgeNode
	next *edgeNode
}

// EdgeStore keeps the active edges dual-indexed: a doubly-linked list
// ordered by timestamp ascending (head = oldest) for O(1) oldest-first
// eviction, and a pair-keyed map for duplicate detection. Both indexes are
// kept in sync on every insert and removal.
type EdgeStore struct {
	byPair map[model.Pair]*edgeNode
	head   *edgeNode // oldest
	tail   *edgeNode // newest
}

// NewEdgeStore returns an empty edge store.
func NewEdgeStore() *EdgeStore {
	return &EdgeStore{
		byPair: make(map[model.Pair]*edgeNode),
	}
}

// Admit records a contact between the pair at ts and reports what changed.
//
// A pair without an active edge yields a Created change. A duplicate with a
// timestamp at or above the stored one refreshes the edge (Refreshed): the
// eviction time of an edge is governed by the most recent contact ever seen
// for that pair. A duplicate older than the stored timestamp is ignored
// (Stale) so that an in-window but late replay cannot roll the edge back
// toward the window floor.
func (s *EdgeStore) Admit(pair model.Pair, ts int64) model.Change {
	if n, ok := s.byPair[pair]; ok {
		if ts < n.ts {
			return model.Change{Op: model.Stale, Pair: pair, TS: n.ts}
		}
		s.detach(n)
		n.ts = ts
		s.insert(n)
		return model.Change{Op: model.Refreshed, Pair: pair, TS: ts}
	}

	n := &edgeNode{pair: pair, ts: ts}
	s.byPair[pair] = n
	s.insert(n)
	return model.Change{Op: model.Created, Pair: pair, TS: ts}
}

// EvictOlderThan removes every edge with timestamp < boundary, oldest
// first, and returns one Removed change per evicted edge. Amortized O(1)
// per eviction: the list head is always the oldest edge.
func (s *EdgeStore) EvictOlderThan(boundary int64) []model.Change {
	var removed []model.Change
	for s.head != nil && s.head.ts < boundary {
		n := s.head
		s.detach(n)
		delete(s.byPair, n.pair)
		removed = append(removed, model.Change{Op: model.Removed, Pair: n.pair, TS: n.ts})
	}
	return removed
}

// Len returns the number of active edges.
func (s *EdgeStore) Len() int {
	return len(s.byPair)
}

// OldestTS returns the timestamp of the oldest active edge, or false when
// the store is empty.
func (s *EdgeStore) OldestTS() (int64, bool) {
	if s.head == nil {
		return 0, false
	}
	return s.head.ts, true
}

// insert places n into the list keeping ascending timestamp order. The scan
// starts at the tail because the workload is dominated by fresh timestamps;
// a node rarely travels more than a few positions.
func (s *EdgeStore) insert(n *edgeNode) {
	if s.tail == nil {
		s.head, s.tail = n, n
		return
	}
	at := s.tail
	for at != nil && at.ts > n.ts {
		at = at.prev
	}
	if at == nil { // new oldest
		n.next = s.head
		s.head.prev = n
		s.head = n
		return
	}
	n.prev = at
	n.next = at.next
	at.next = n
	if n.next != nil {
		n.next.prev = n
	} else {
		s.tail = n
	}
}

// detach unlinks n from the list without touching the pair index.
func (s *EdgeStore) detach(n *edgeNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		s.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		s.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
