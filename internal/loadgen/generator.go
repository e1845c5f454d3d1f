package loadgen

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/okian/medgraph/pkg/logger"
)

// Timestamp jitter keeps every generated event inside the service window:
// events span at most half the window, so nothing is evicted or rejected
// and the final median is order-independent and verifiable.
const (
	timestampJitterDivisor = 2
	eventIDDivisor         = 10000
)

// randomInt returns a uniform random int in [0, n) using crypto/rand.
func randomInt(n int64) int64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

// generateEvents creates the specified number of events over a fixed
// participant pool so the graph develops interesting degree structure.
func generateEvents(ctx context.Context, config *Config, stats *Stats) ([]Event, error) {
	logger.Get().Info(ctx, "generating payment events",
		logger.Int("numEvents", config.NumEvents),
		logger.Int("numActors", config.NumActors),
	)

	// Pre-allocate the participant pool
	actors := make([]string, config.NumActors)
	for i := range actors {
		actors[i] = "user-" + uuid.New().String()[:8]
	}

	base := time.Now().UTC()
	jitter := config.Span / timestampJitterDivisor
	if jitter < 1 {
		jitter = 1
	}

	events := make([]Event, config.NumEvents)
	for i := range events {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		events[i] = generateSingleEvent(i, actors, base, jitter)
	}

	stats.EventsGenerated = len(events)
	logger.Get().Info(ctx, "generated events successfully", logger.Int("count", len(events)))

	return events, nil
}

// generateSingleEvent creates one event between two distinct participants.
func generateSingleEvent(index int, actors []string, base time.Time, jitter int64) Event {
	actorIdx := randomInt(int64(len(actors)))
	targetIdx := randomInt(int64(len(actors)))
	if targetIdx == actorIdx {
		targetIdx = (targetIdx + 1) % int64(len(actors))
	}

	ts := base.Add(time.Duration(randomInt(jitter)) * time.Second)

	eventID := "event_" + strconv.Itoa(index) + "_" +
		strconv.FormatInt(base.Unix(), 10) + "_" +
		strconv.FormatInt(randomInt(eventIDDivisor), 10)

	return Event{
		EventID:     eventID,
		Actor:       actors[actorIdx],
		Target:      actors[targetIdx],
		CreatedTime: ts.Format(time.RFC3339),
	}
}
