// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package retry

import (
	"cmp"
	"context"
	"math/rand/v2"
	"time"

	"vawter.tech/reduce/seq"
)

// Backoff configures an exponential backoff with jitter. The zero value
// is usable.
type Backoff struct {
	Jitter      time.Duration    // Delays are adjusted ±50% of this value. Default is 0.
	MaxAttempts int              // Defaults to 4 if unset.
	MaxDelay    time.Duration    // Defaults to 1s if unset.
	MinDelay    time.Duration    // Defaults to 10ms if unset.
	Multiplier  float32          // Defaults to 10.0 if unset.
	Retryable   func(error) bool // Defaults to retrying all errors.
}

// attempt tracks the retries of a single cursor operation.
type attempt struct {
	failures int
	delay    time.Duration
}

// WithBackoff returns a sequence that retries failed cursor operations
// using exponential backoff with jitter. Attempts are counted
// separately for each cursor acquisition and for each element, so a
// long sequence with occasional failures is not abandoned.
func WithBackoff[T any](s seq.Sequence[T], b *Backoff) seq.Sequence[T] {
	cfg := b.sanitize()
	return Wrap(s, func(_ context.Context, a *attempt, err error) (<-chan time.Time, error) {
		if !cfg.Retryable(err) {
			return nil, err
		}
		a.failures++
		if a.failures >= cfg.MaxAttempts {
			return nil, &MaxAttemptsError{Attempts: a.failures, Err: err}
		}
		a.delay = cfg.grow(a.delay)
		return time.After(a.delay + cfg.jitter()), nil
	})
}

// grow returns the delay that follows prev, clamped to the configured
// bounds.
func (b *Backoff) grow(prev time.Duration) time.Duration {
	next := time.Duration(float32(prev) * b.Multiplier)
	return min(max(b.MinDelay, next), b.MaxDelay)
}

func (b *Backoff) jitter() time.Duration {
	if b.Jitter == 0 {
		return 0
	}
	return time.Duration((rand.Float32() - 0.5) * float32(b.Jitter))
}

// sanitize returns a copy with all fields initialized to a reasonable default.
func (b *Backoff) sanitize() *Backoff {
	ret := *b
	ret.MaxAttempts = cmp.Or(ret.MaxAttempts, 4)
	ret.MaxDelay = cmp.Or(ret.MaxDelay, time.Second)
	ret.MinDelay = cmp.Or(ret.MinDelay, 10*time.Millisecond)
	ret.Multiplier = cmp.Or(ret.Multiplier, 10)
	if ret.Retryable == nil {
		ret.Retryable = retryAll
	}
	return &ret
}

func retryAll(error) bool { return true }
