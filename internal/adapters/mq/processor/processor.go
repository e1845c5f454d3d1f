// Package processor hosts the single consumer that feeds the window
// engine. The engine's invariants hold only under strictly sequential
// application of deltas, so exactly one Processor goroutine owns it;
// parallel producers are serialized by the queue in front of it.
package processor

import (
	"context"
	"fmt"
	"time"

	repository "github.com/okian/medgraph/internal/adapters/repository"
	"github.com/okian/medgraph/internal/domain/model"
	window "github.com/okian/medgraph/internal/domain/window"
	"github.com/okian/medgraph/pkg/logger"
	"github.com/okian/medgraph/pkg/metrics"
)

// shutdownWait bounds how long Shutdown waits for the loop to stop.
const shutdownWait = 30 * time.Second

// Event is what the processor reads off the queue.
type Event = model.Event

// Queue defines how the processor receives events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Engine processes one event at a time and reports graph state.
type Engine interface {
	Process(ctx context.Context, ev model.Event) (window.Result, error)
	Stats() window.Stats
}

// Recorder persists one sample per processed event.
type Recorder interface {
	Append(ctx context.Context, s repository.Sample) repository.Sample
}

// Processor drains the queue into the engine and records samples.
type Processor struct {
	queue    Queue
	engine   Engine
	recorder Recorder

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Processor.
type Option func(*Processor)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// New constructs a processor over the given queue, engine, and recorder.
func New(queue Queue, engine Engine, recorder Recorder, opts ...Option) *Processor {
	p := &Processor{
		queue:    queue,
		engine:   engine,
		recorder: recorder,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("processor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the consumer loop in its own goroutine.
func (p *Processor) Start(ctx context.Context) {
	go p.run(ctx)
}

// run consumes events until the queue closes, the context is canceled, or
// an engine invariant violation makes further processing meaningless.
func (p *Processor) run(ctx context.Context) {
	defer close(p.done)

	events := p.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := p.processEvent(ctx, ev); err != nil {
				// Degree underflow means the graph bookkeeping is broken;
				// continuing would emit garbage medians.
				p.logger.Error(ctx, "engine invariant violated, stopping",
					logger.String("eventID", ev.EventID),
					logger.Error(err),
				)
				return
			}
			metrics.RecordQueueDequeue()
		}
	}
}

// processEvent runs one event through the engine and records the outcome.
func (p *Processor) processEvent(ctx context.Context, ev Event) error {
	start := time.Now()

	res, err := p.engine.Process(ctx, ev)
	if err != nil {
		return fmt.Errorf("process event %s: %w", ev.EventID, err)
	}

	metrics.RecordProcessLatency(float64(time.Since(start).Microseconds()) / 1000)

	stats := p.engine.Stats()
	sample := p.recorder.Append(ctx, repository.Sample{
		EventID:        ev.EventID,
		Median:         res.Median,
		Accepted:       res.Accepted,
		ActiveEdges:    stats.ActiveEdges,
		ActiveVertices: stats.ActiveVertices,
		LatestTS:       stats.LatestTS,
		WindowFloor:    stats.WindowFloor,
	})
	metrics.RecordSampleRecorded()

	if res.Accepted {
		metrics.RecordEventAccepted()
	} else if ev.SelfLoop() {
		metrics.RecordEventSelfLoop()
	} else {
		metrics.RecordEventRejected()
	}
	if res.Created {
		metrics.RecordEdgeCreated()
	}
	if res.Evicted > 0 {
		metrics.RecordEdgesEvicted(res.Evicted)
	}
	metrics.UpdateActiveEdges(stats.ActiveEdges)
	metrics.UpdateActiveVertices(stats.ActiveVertices)
	metrics.UpdateCurrentMedian(res.Median)

	p.logger.Debug(ctx, "processed event",
		logger.String("eventID", ev.EventID),
		logger.Int64("seq", sample.Seq),
		logger.Float64("median", res.Median),
		logger.Bool("accepted", res.Accepted),
	)
	return nil
}

// Shutdown stops the consumer loop and waits for it to finish.
func (p *Processor) Shutdown(ctx context.Context) error {
	select {
	case <-p.shutdown:
		// already signalled
	default:
		close(p.shutdown)
	}

	waitCtx, cancel := context.WithTimeout(ctx, shutdownWait)
	defer cancel()

	select {
	case <-p.done:
		return nil
	case <-waitCtx.Done():
		p.logger.Warn(ctx, "processor shutdown timed out")
		return fmt.Errorf("processor shutdown: %w", waitCtx.Err())
	}
}
