// Package backoff provides a jittered exponential counter for spacing out
// retry attempts.
package backoff

import (
	"math/rand/v2"
	"time"
)

// Counter produces exponentially growing delay values with uniform jitter.
// The base starts at 1 and doubles on every call to Next, clamped to the
// configured maximum. Jitter spreads each returned value uniformly across a
// band of 1/16 of the current base centered on it, so a value can exceed the
// base (and therefore the maximum) by up to 3.125%.
//
// A Counter is intended to live on the stack of a single retry loop and is
// not safe for concurrent use.
type Counter struct {
	base    float64
	max     float64
	uniform func() float64
}

// Option configures a Counter.
type Option func(*Counter)

// WithRand replaces the uniform random source used for jitter. The function
// must return values in [0, 1). Intended for deterministic tests.
func WithRand(uniform func() float64) Option {
	return func(c *Counter) {
		if uniform != nil {
			c.uniform = uniform
		}
	}
}

// New returns a Counter whose base value grows up to max. A max below 1 is
// treated as 1.
func New(max int, opts ...Option) *Counter {
	if max < 1 {
		max = 1
	}
	c := &Counter{
		base:    1,
		max:     float64(max),
		uniform: rand.Float64,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Next returns the current jittered value and doubles the base for the
// following call, clamping it to the maximum.
func (c *Counter) Next() float64 {
	maxJitter := c.base / 16
	value := c.base + c.uniform()*maxJitter - maxJitter/2
	c.base = min(c.base*2, c.max)
	return value
}

// NextDelay returns Next interpreted as a duration in seconds.
func (c *Counter) NextDelay() time.Duration {
	return time.Duration(c.Next() * float64(time.Second))
}

// Reset returns the base to 1. Call it after a successful attempt so the
// next failure starts the progression over.
func (c *Counter) Reset() {
	c.base = 1
}
