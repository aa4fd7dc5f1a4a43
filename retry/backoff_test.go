// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package retry

import (
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
	"vawter.tech/reduce"
	"vawter.tech/reduce/seq"
)

// TestBackoffDefaults verifies that the sanitize method applies
// reasonable defaults when fields are left at their zero values.
func TestBackoffDefaults(t *testing.T) {
	r := require.New(t)

	b := &Backoff{}
	s := b.sanitize()

	r.Equal(4, s.MaxAttempts)
	r.Equal(time.Second, s.MaxDelay)
	r.Equal(10*time.Millisecond, s.MinDelay)
	r.Equal(float32(10), s.Multiplier)
	r.NotNil(s.Retryable)
	r.True(s.Retryable(errors.New("any")))
}

// TestBackoffSanitizePreservesExplicit verifies that explicitly set
// fields are not overridden by sanitize.
func TestBackoffSanitizePreservesExplicit(t *testing.T) {
	r := require.New(t)

	retryable := func(_ error) bool { return false }
	b := &Backoff{
		Jitter:      5 * time.Second,
		MaxAttempts: 7,
		MaxDelay:    3 * time.Second,
		MinDelay:    50 * time.Millisecond,
		Multiplier:  3.5,
		Retryable:   retryable,
	}
	s := b.sanitize()

	r.Equal(5*time.Second, s.Jitter)
	r.Equal(7, s.MaxAttempts)
	r.Equal(3*time.Second, s.MaxDelay)
	r.Equal(50*time.Millisecond, s.MinDelay)
	r.Equal(float32(3.5), s.Multiplier)
	r.False(s.Retryable(errors.New("any")))
}

// TestBackoffExponentialDelay verifies that delays grow exponentially
// on successive retries, using synctest to advance fake time.
func TestBackoffExponentialDelay(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := require.New(t)

		f := &flaky{data: []int{1, 2}, err: errors.New("not yet"), nextFails: 3}
		s := WithBackoff[int](f, &Backoff{
			MaxAttempts: 10,
			MinDelay:    100 * time.Millisecond,
			MaxDelay:    10 * time.Second,
			Multiplier:  2,
		})

		start := time.Now()
		same, err := seq.Equal[int](t.Context(), s, seq.Slice[int]{1, 2})
		r.NoError(err)
		r.True(same)

		// Each of the three Next calls fails three times, waiting
		// 100ms + 200ms + 400ms before succeeding.
		r.Equal(3*700*time.Millisecond, time.Since(start))
		r.Equal(1, f.closeCalls)
	})
}

// TestBackoffMaxDelayCap verifies that the delay never exceeds MaxDelay
// even when the exponential calculation would produce a larger value.
func TestBackoffMaxDelayCap(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := require.New(t)

		f := &flaky{data: nil, err: errors.New("not yet"), nextFails: 3}
		s := WithBackoff[int](f, &Backoff{
			MaxAttempts: 10,
			MinDelay:    100 * time.Millisecond,
			MaxDelay:    500 * time.Millisecond,
			Multiplier:  100, // Aggressive multiplier to hit cap fast.
		})

		start := time.Now()
		same, err := seq.Equal[int](t.Context(), s, seq.Slice[int]{})
		r.NoError(err)
		r.True(same)
		r.Equal(1100*time.Millisecond, time.Since(start))
	})
}

// TestBackoffMaxAttempts verifies that an error wrapping the original
// is returned after exceeding the configured number of retries.
func TestBackoffMaxAttempts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := require.New(t)

		taskErr := errors.New("always fails")
		f := &flaky{data: []int{1}, err: taskErr, nextFails: 100}
		s := WithBackoff[int](f, &Backoff{
			MaxAttempts: 3,
			MinDelay:    10 * time.Millisecond,
			MaxDelay:    10 * time.Millisecond,
			Multiplier:  1,
		})

		_, err := seq.Equal[int](t.Context(), s, seq.Slice[int]{1})
		r.ErrorIs(err, taskErr)
		var att *MaxAttemptsError
		r.ErrorAs(err, &att)
		r.Equal(3, att.Attempts)
		var prodErr *reduce.ProducerError
		r.ErrorAs(err, &prodErr)
		r.Equal(3, f.nextCalls)
		r.Equal(1, f.closeCalls)
	})
}

// TestBackoffNonRetryable verifies that errors rejected by the
// Retryable predicate are returned immediately without retry.
func TestBackoffNonRetryable(t *testing.T) {
	r := require.New(t)

	permanent := errors.New("permanent")
	f := &flaky{data: []int{1}, err: permanent, nextFails: 1}
	s := WithBackoff[int](f, &Backoff{
		Retryable: func(err error) bool {
			return !errors.Is(err, permanent)
		},
	})

	_, err := seq.Equal[int](t.Context(), s, seq.Slice[int]{1})
	r.ErrorIs(err, permanent)
	r.Equal(1, f.nextCalls)
}

func TestBackoffOpen(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := require.New(t)

		f := &flaky{data: []int{1}, err: errors.New("unavailable"), openFails: 2}
		s := WithBackoff[int](f, &Backoff{MinDelay: time.Second, Multiplier: 1})

		start := time.Now()
		same, err := seq.Equal[int](t.Context(), s, seq.Slice[int]{1})
		r.NoError(err)
		r.True(same)
		r.Equal(3, f.opens)
		r.Equal(2*time.Second, time.Since(start))
	})
}
