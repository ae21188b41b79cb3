package rstream

import "log/slog"

// streamConfig holds the tunables applied by StreamOptions.
type streamConfig struct {
	name         string
	pauseAfter   int
	pauseValid   bool
	skipExisting bool
	backoffCap   int
	logger       *slog.Logger
	metrics      *Metrics
}

func defaultStreamConfig() streamConfig {
	return streamConfig{
		name:       "stream",
		backoffCap: defaultBackoffCap,
	}
}

// StreamOption configures a Stream.
type StreamOption func(*streamConfig)

// WithName labels the stream in logs and metrics.
func WithName(name string) StreamOption {
	return func(c *streamConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithPauseAfter makes Next return ErrPaused after more than n consecutive
// polls without new items. n = 0 pauses after every empty poll; a negative
// n pauses after every poll regardless of outcome. Without this option the
// stream never pauses and instead sleeps with growing backoff between empty
// polls.
func WithPauseAfter(n int) StreamOption {
	return func(c *streamConfig) {
		c.pauseAfter = n
		c.pauseValid = true
	}
}

// WithSkipExisting suppresses delivery of the items that were already in
// the listing when the stream started. The first poll still records them
// for deduplication.
func WithSkipExisting() StreamOption {
	return func(c *streamConfig) {
		c.skipExisting = true
	}
}

// WithBackoffCap bounds the idle sleep between consecutive empty polls, in
// seconds. The default is 16.
func WithBackoffCap(seconds int) StreamOption {
	return func(c *streamConfig) {
		if seconds >= 1 {
			c.backoffCap = seconds
		}
	}
}

// WithLogger attaches a structured logger for per-poll diagnostics.
func WithLogger(logger *slog.Logger) StreamOption {
	return func(c *streamConfig) {
		c.logger = logger
	}
}

// WithMetrics attaches a Prometheus collector for poll instrumentation.
func WithMetrics(m *Metrics) StreamOption {
	return func(c *streamConfig) {
		c.metrics = m
	}
}
