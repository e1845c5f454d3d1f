// Package repository defines the median sample store interface and errors.
package repository

import "time"

// Option applies a configuration option to the RingStore.
type Option func(*RingStore)

// WithHistorySize sets how many samples the ring retains.
func WithHistorySize(n int) Option {
	return func(s *RingStore) {
		if n > 0 {
			s.size = n
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *RingStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}
