// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package retry wraps a [seq.Sequence] so that failed cursor operations
// are retried.
//
// [Wrap] is a general-purpose building block for retryable sequences
// using a [Classifier] function to drive the retry policy. An
// exponential [Backoff] and a trivial [Loop] implementation are
// provided via [WithBackoff] and [WithLoop].
package retry

import (
	"context"
	"errors"
	"runtime/trace"

	"vawter.tech/reduce/seq"
)

// A Classifier is a function that determines if an error is retryable.
// Each cursor acquisition and each call to [seq.Cursor.Next] is
// associated with a state value, which is initially the zero value for
// the S type. If the operation fails, the error and the current state
// are passed to the Classifier. The Classifier may return an error to
// fail the operation if it should not be retried.
//
// If the operation should be retried, the Classifier returns a channel
// that emits a value when the operation should be retried (e.g.:
// [time.After]). Closing the channel without emitting a value will
// abandon the retry, failing with the error most recently passed to
// the Classifier.
//
// If the context is done while waiting for the retry signal, the
// operation will be failed with the previously examined error joined
// with the context's cause.
//
// If the returned channel and error are both nil, the error will be
// considered to have been handled by the Classifier function and the
// sequence will be treated as exhausted.
type Classifier[S, N any] func(ctx context.Context, state *S, err error) (<-chan N, error)

// Wrap returns a Sequence that retries failed calls to
// [seq.Sequence.Cursor] and [seq.Cursor.Next] on the underlying
// sequence according to the Classifier. Calls to [seq.Cursor.Close]
// are never retried.
//
// Retrying Next assumes that the underlying cursor remains usable after
// a failure, as is the case for cursors over remote result pages.
func Wrap[T, S, N any](s seq.Sequence[T], fn Classifier[S, N]) seq.Sequence[T] {
	return seq.SequenceFunc[T](func(ctx context.Context) (seq.Cursor[T], error) {
		var state S
		for {
			c, err := s.Cursor(ctx)
			if err == nil {
				return &cursor[T, S, N]{delegate: c, fn: fn}, nil
			}
			handled, err := classify(ctx, fn, &state, err)
			if err != nil {
				return nil, err
			}
			if handled {
				return seq.Slice[T](nil).Cursor(ctx)
			}
		}
	})
}

type cursor[T, S, N any] struct {
	delegate seq.Cursor[T]
	fn       Classifier[S, N]
}

func (c *cursor[T, S, N]) Close() error { return c.delegate.Close() }

func (c *cursor[T, S, N]) Next(ctx context.Context) (T, bool, error) {
	var state S
	for {
		ret, ok, err := c.delegate.Next(ctx)
		if err == nil {
			return ret, ok, nil
		}
		handled, err := classify(ctx, c.fn, &state, err)
		if err != nil || handled {
			var zero T
			return zero, false, err
		}
	}
}

// classify returns true if the Classifier ate the error, an error if
// the operation should fail, or false and nil once it is time to retry.
func classify[S, N any](
	ctx context.Context, fn Classifier[S, N], state *S, err error,
) (handled bool, _ error) {
	next, fail := fn(ctx, state, err)
	// Classifier is rejecting the error.
	if fail != nil {
		return false, fail
	}
	// Classifier ate the error condition.
	if next == nil {
		return true, nil
	}
	// Wait for a decision.
	return false, waitOnChannel(ctx, next, err)
}

func waitOnChannel[N any](ctx context.Context, next <-chan N, err error) error {
	defer trace.StartRegion(ctx, "retry wait").End()
	select {
	case _, ok := <-next:
		if ok {
			return nil
		}
		return err
	case <-ctx.Done():
		return errors.Join(err, context.Cause(ctx))
	}
}
