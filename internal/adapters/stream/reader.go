// Package stream adapts line-oriented event files to the window engine.
// Each input line is one JSON object; each output line is one median.
package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/medgraph/internal/domain/model"
	"github.com/okian/medgraph/pkg/logger"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// eventLine mirrors the JSON shape of one input line.
type eventLine struct {
	EventID     string `json:"event_id"`
	Actor       string `json:"actor"`
	Target      string `json:"target"`
	CreatedTime string `json:"created_time"`
}

func (e eventLine) validate() error {
	switch {
	case strings.TrimSpace(e.Actor) == "":
		return errors.New("missing actor")
	case strings.TrimSpace(e.Target) == "":
		return errors.New("missing target")
	case strings.TrimSpace(e.CreatedTime) == "":
		return errors.New("missing created_time")
	}
	return nil
}

// Reader yields events from a line-delimited JSON stream. Malformed lines
// are logged and skipped rather than aborting the batch.
type Reader struct {
	sc     *bufio.Scanner
	line   int
	logger logger.Logger
}

// ReaderOption applies a configuration option to the Reader.
type ReaderOption func(*Reader)

// WithReaderLogger sets a custom logger.
func WithReaderLogger(l logger.Logger) ReaderOption {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewReader wraps r in a line-oriented event reader.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	rd := &Reader{
		sc:     sc,
		logger: logger.Get().Named("stream"),
	}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// Next returns the next well-formed event, skipping lines that fail to
// parse. It returns io.EOF once the stream is exhausted.
func (r *Reader) Next(ctx context.Context) (model.Event, error) {
	for r.sc.Scan() {
		r.line++
		raw := strings.TrimSpace(r.sc.Text())
		if raw == "" {
			continue
		}

		var line eventLine
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			r.logger.Warn(ctx, "skipping malformed line",
				logger.Int("line", r.line),
				logger.Error(err),
			)
			continue
		}
		if err := line.validate(); err != nil {
			r.logger.Warn(ctx, "skipping incomplete line",
				logger.Int("line", r.line),
				logger.Error(err),
			)
			continue
		}
		ts, err := time.Parse(time.RFC3339, line.CreatedTime)
		if err != nil {
			r.logger.Warn(ctx, "skipping line with bad created_time",
				logger.Int("line", r.line),
				logger.Error(err),
			)
			continue
		}

		id := line.EventID
		if id == "" {
			id = uuid.NewString()
		}
		return model.Event{
			EventID: id,
			Actor:   line.Actor,
			Target:  line.Target,
			TS:      ts.Unix(),
		}, nil
	}
	if err := r.sc.Err(); err != nil {
		return model.Event{}, err
	}
	return model.Event{}, io.EOF
}
