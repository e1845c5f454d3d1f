// Package repository defines the median sample store interface and errors.
package repository

import "context"

// Sample captures the engine state observed after one event.
type Sample struct {
	Seq            int64
	EventID        string
	Median         float64
	Accepted       bool
	ActiveEdges    int
	ActiveVertices int
	LatestTS       int64
	WindowFloor    int64
}

// Store provides read/write access to the sample history.
type Store interface {
	// Append records a sample and returns it with its sequence number set.
	// Sequence numbers are monotonically increasing from 1.
	Append(ctx context.Context, s Sample) Sample

	// Latest returns the most recent sample.
	// Returns ErrNoSamples if nothing has been recorded yet.
	Latest(ctx context.Context) (Sample, error)

	// Recent returns up to n samples, most recent first.
	// Returns ErrInvalidLimit if n < 1.
	Recent(ctx context.Context, n int) ([]Sample, error)

	// Count returns the number of samples currently retained.
	Count(ctx context.Context) int

	// TotalSeen returns the number of samples ever appended, including
	// those the retention ring has since discarded.
	TotalSeen(ctx context.Context) int64
}
