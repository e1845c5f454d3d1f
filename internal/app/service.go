// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"

	processor "github.com/okian/medgraph/internal/adapters/mq/processor"
	eventqueue "github.com/okian/medgraph/internal/adapters/mq/queue"
	repository "github.com/okian/medgraph/internal/adapters/repository"
	"github.com/okian/medgraph/internal/domain/dedupe"
	"github.com/okian/medgraph/internal/domain/model"
	"github.com/okian/medgraph/internal/domain/window"
	"github.com/okian/medgraph/pkg/logger"
	"github.com/okian/medgraph/pkg/metrics"
)

// Service implements the API dependencies for the median-degree system.
type Service struct {
	mu sync.RWMutex

	// Core components
	history    repository.Store
	ring       *repository.RingStore
	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	engine     *window.Engine
	processor  *processor.Processor

	// Configuration
	windowSpan  int64
	queueSize   int
	dedupeSize  int
	historySize int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWindowSpan sets the trailing window length in seconds.
func WithWindowSpan(span int64) Option {
	return func(s *Service) {
		if span > 0 {
			s.windowSpan = span
		}
	}
}

// WithQueueSize sets the maximum size of the event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithHistorySize sets how many median samples are retained.
func WithHistorySize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.historySize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		windowSpan:  window.DefaultSpan,
		queueSize:   100000,
		dedupeSize:  500000,
		historySize: 1024,
		logger:      nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting median-degree service...")

	// Initialize components
	s.ring = repository.NewRingStore(ctx,
		repository.WithHistorySize(s.historySize),
	)
	s.history = s.ring
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.eventQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
	)
	s.engine = window.New(
		window.WithSpan(s.windowSpan),
	)

	// The engine is single-writer; exactly one processor owns it.
	s.processor = processor.New(s.eventQueue, s.engine, s.ring)
	s.processor.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "median-degree service started",
		logger.Int64("windowSpan", s.windowSpan),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("historySize", s.historySize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping median-degree service...")

	// Refuse new events, let the processor drain what is queued
	if q, ok := s.eventQueue.(*eventqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	if s.processor != nil {
		_ = s.processor.Shutdown(ctx)
	}

	if s.ring != nil {
		s.ring.Stop()
	}

	s.started = false
	s.logger.Info(ctx, "median-degree service stopped")
}

// SeenAndRecord atomically checks if an event id was seen and records it if not.
// Returns true if the event was already seen, false if it was newly recorded.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord removes an event ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits an event for asynchronous processing.
func (s *Service) Enqueue(ctx context.Context, e model.Event) bool {
	s.logger.Debug(ctx, "enqueueing event",
		logger.String("eventID", e.EventID),
		logger.String("actor", e.Actor),
		logger.String("target", e.Target),
		logger.Int64("ts", e.TS),
	)

	if err := s.eventQueue.Enqueue(ctx, e); err != nil {
		if errors.Is(err, eventqueue.ErrQueueFull) {
			s.logger.Warn(ctx, "event queue full, shedding event",
				logger.String("eventID", e.EventID),
			)
		} else {
			s.logger.Warn(ctx, "enqueue refused",
				logger.String("eventID", e.EventID),
				logger.Error(err),
			)
		}
		return false
	}
	metrics.UpdateQueueSize(s.eventQueue.Len(ctx))
	return true
}

// Latest returns the most recent median sample.
func (s *Service) Latest(ctx context.Context) (repository.Sample, error) {
	return s.history.Latest(ctx)
}

// Recent returns up to n median samples, most recent first.
func (s *Service) Recent(ctx context.Context, n int) ([]repository.Sample, error) {
	return s.history.Recent(ctx, n)
}

// GetStats returns service statistics for monitoring. Engine state is read
// from the latest recorded sample so the single-writer engine is never
// touched from HTTP goroutines.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"window_span":  s.windowSpan,
		"queue_size":   s.queueSize,
		"dedupe_size":  s.dedupeSize,
		"history_size": s.historySize,
	}

	if s.started {
		queueLen := s.eventQueue.Len(ctx)
		stats["queued_events"] = queueLen
		stats["samples_total"] = s.history.TotalSeen(ctx)
		stats["samples_retained"] = s.history.Count(ctx)
		stats["dedupe_entries"] = s.deduper.Size()

		if latest, err := s.history.Latest(ctx); err == nil {
			stats["median"] = latest.Median
			stats["active_edges"] = latest.ActiveEdges
			stats["active_vertices"] = latest.ActiveVertices
			stats["latest_ts"] = latest.LatestTS
			stats["window_floor"] = latest.WindowFloor
		}

		metrics.UpdateQueueSize(queueLen)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
