// Package repository defines the median sample store interface and errors.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/medgraph/pkg/metrics"
)

// Ring-buffer-backed, in-memory Store implementation.
//
// Appends happen on the single processor goroutine; reads come from HTTP
// handlers. A plain RWMutex is enough: writes are O(1) slot assignments
// and readers only copy out at most the ring's worth of samples.

// defaultHistorySize bounds the ring when no option is given.
const defaultHistorySize = 1024

// RingStore retains the most recent samples in a fixed-size ring.
type RingStore struct {
	mu        sync.RWMutex
	ring      []Sample
	size      int
	next      int   // slot the next append writes to
	count     int   // live samples, <= size
	totalSeen int64 // doubles as the sequence counter

	metricsUpdateInterval time.Duration

	// Background metrics management
	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewRingStore constructs a ring store with configuration options.
func NewRingStore(ctx context.Context, opts ...Option) *RingStore {
	s := &RingStore{
		size:                  defaultHistorySize,
		metricsUpdateInterval: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ring = make([]Sample, s.size)

	s.stopChan = make(chan struct{})
	s.startMetricsUpdater(ctx)

	return s
}

// Append records a sample, assigning it the next sequence number.
func (s *RingStore) Append(_ context.Context, sample Sample) Sample {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalSeen++
	sample.Seq = s.totalSeen

	s.ring[s.next] = sample
	s.next = (s.next + 1) % s.size
	if s.count < s.size {
		s.count++
	}
	return sample
}

// Latest returns the most recent sample.
func (s *RingStore) Latest(_ context.Context) (Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.count == 0 {
		return Sample{}, ErrNoSamples
	}
	last := (s.next - 1 + s.size) % s.size
	return s.ring[last], nil
}

// Recent returns up to n samples, most recent first.
func (s *RingStore) Recent(_ context.Context, n int) ([]Sample, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > s.count {
		n = s.count
	}
	out := make([]Sample, 0, n)
	for i := 1; i <= n; i++ {
		idx := (s.next - i + s.size) % s.size
		out = append(out, s.ring[idx])
	}
	return out, nil
}

// Count returns the number of samples currently retained.
func (s *RingStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// TotalSeen returns the number of samples ever appended.
func (s *RingStore) TotalSeen(_ context.Context) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalSeen
}

// startMetricsUpdater starts a background goroutine that refreshes the
// sample gauge at the configured interval.
func (s *RingStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateRetainedSamples(s.Count(ctx))
			}
		}
	}()
}

// Stop terminates the background metrics goroutine and waits for it.
func (s *RingStore) Stop() {
	select {
	case <-s.stopChan:
		// already stopped
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
}
