// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// WindowSpan sets the trailing window length in seconds.
	WindowSpan int64 `koanf:"window_span"`

	// EventQueueSize bounds the in-memory event queue.
	EventQueueSize int `koanf:"queue_size"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// HistorySize sets how many median samples the history ring retains.
	HistorySize int `koanf:"history_size"`

	// MaxRecentLimit caps GET /medians?limit.
	MaxRecentLimit int `koanf:"max_recent_limit"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		WindowSpan:     60,
		EventQueueSize: 100_000,
		DedupeSize:     500_000,
		HistorySize:    1024,
		MaxRecentLimit: 100,
	}
}
