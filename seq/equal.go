// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seq

import (
	"context"
	"errors"
	"log/slog"
	"runtime/trace"

	"vawter.tech/reduce"
	"vawter.tech/reduce/internal/metrics"
	"vawter.tech/reduce/internal/safe"
)

var errNilCursor = errors.New("sequence returned a nil cursor")

// Equal reports whether two sequences contain the same elements in the
// same order, using the == operator. See [EqualFunc] for details.
func Equal[T comparable](ctx context.Context, a, b Sequence[T]) (bool, error) {
	return EqualFunc(ctx, a, b, reduce.Comparable[T]())
}

// EqualFunc reports whether two sequences contain the same elements in
// the same order. If eq is nil, [reduce.Deep] is used. A
// [reduce.ArgumentError] is returned if a or b is nil or is a nil
// pointer or function. A nil [Slice] is a valid, empty sequence.
//
// If both sequences implement [Indexed], their lengths are compared
// first and elements are then compared pairwise by ascending index.
// This path never acquires a cursor and does not consult the context.
//
// Otherwise, a cursor is acquired from a and then from b. Each round
// advances a, then b, then compares the two values. Iteration stops at
// the first inequality, when either cursor is exhausted, or on the
// first failure. The cursors are closed in reverse order before
// returning, regardless of outcome.
//
// The context is checked before each call to [Cursor.Next]. If it is
// done, a [reduce.CancellationError] is returned. Comparer failures
// are reported as a [reduce.ComparerError] and producer failures as a
// [reduce.ProducerError]. If closing a cursor fails, the result is
// false and the failure is reported as a [reduce.ReleaseError], or
// attached to a [reduce.SuppressedError] if another failure is already
// being returned.
func EqualFunc[T any](
	ctx context.Context, a, b Sequence[T], eq reduce.Comparer[T],
) (same bool, err error) {
	if safe.IsNil(a) {
		return false, &reduce.ArgumentError{Name: "a"}
	}
	if safe.IsNil(b) {
		return false, &reduce.ArgumentError{Name: "b"}
	}
	eq = reduce.OrDeep(eq)

	defer trace.StartRegion(ctx, "sequence compare").End()

	if ia, ok := a.(Indexed[T]); ok {
		if ib, ok := b.(Indexed[T]); ok {
			done := metrics.TrackCompare(metrics.PathIndexed)
			defer func() { done(same, err) }()
			return equalIndexed(ia, ib, eq)
		}
	}

	done := metrics.TrackCompare(metrics.PathCursor)
	defer func() { done(same, err) }()
	return equalCursors(ctx, a, b, eq)
}

// equalIndexed is the synchronous fast path.
func equalIndexed[T any](a, b Indexed[T], eq reduce.Comparer[T]) (bool, error) {
	lens, err := safe.Open(func() ([2]int, error) {
		return [2]int{a.Len(), b.Len()}, nil
	})
	if err != nil {
		return false, err
	}
	if lens[0] != lens[1] {
		return false, nil
	}
	for idx := range lens[0] {
		pair, err := safe.Open(func() ([2]T, error) {
			return [2]T{a.At(idx), b.At(idx)}, nil
		})
		if err != nil {
			return false, err
		}
		same, err := safe.Compare(eq, pair[0], pair[1])
		if err != nil || !same {
			return false, err
		}
	}
	return true, nil
}

// equalCursors is the step-by-step path.
func equalCursors[T any](
	ctx context.Context, a, b Sequence[T], eq reduce.Comparer[T],
) (same bool, err error) {
	first, err := open(ctx, a)
	if err != nil {
		return false, err
	}
	defer release(first, &same, &err)

	second, err := open(ctx, b)
	if err != nil {
		return false, err
	}
	defer release(second, &same, &err)

	for {
		x, ok, err := advance(ctx, first)
		if err != nil {
			return false, err
		}
		if !ok {
			break
		}

		y, ok, err := advance(ctx, second)
		if err != nil || !ok {
			return false, err
		}

		match, err := safe.Compare(eq, x, y)
		if err != nil || !match {
			return false, err
		}
	}

	// The first sequence is exhausted, so the second must be too.
	_, ok, err := advance(ctx, second)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func open[T any](ctx context.Context, s Sequence[T]) (Cursor[T], error) {
	c, err := safe.Open(func() (Cursor[T], error) {
		return s.Cursor(ctx)
	})
	if err != nil {
		return nil, classify(ctx, err)
	}
	if c == nil {
		return nil, &reduce.ProducerError{Err: errNilCursor}
	}
	return c, nil
}

// advance is the only suspension point in a comparison, so it is where
// cancellation is observed.
func advance[T any](ctx context.Context, c Cursor[T]) (T, bool, error) {
	if ctx.Err() != nil {
		var zero T
		return zero, false, &reduce.CancellationError{Err: context.Cause(ctx)}
	}
	ret, ok, err := safe.Next(ctx, c.Next)
	if err != nil {
		return ret, false, classify(ctx, err)
	}
	return ret, ok, nil
}

// classify wraps an error from a producer. An error reported while the
// context is done is attributed to the cancellation, unless the
// producer has already been identified as the failure.
func classify(ctx context.Context, err error) error {
	var prodErr *reduce.ProducerError
	if errors.As(err, &prodErr) {
		return err
	}
	if ctx.Err() != nil &&
		(errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) ||
			errors.Is(err, context.Cause(ctx))) {
		return &reduce.CancellationError{Err: err}
	}
	return &reduce.ProducerError{Err: err}
}

// release is deferred immediately after a cursor is acquired. A release
// failure never replaces an error that is already being returned.
func release[T any](c Cursor[T], same *bool, err *error) {
	relErr := safe.Close(c.Close)
	if relErr == nil {
		return
	}
	metrics.TrackReleaseFailure()
	if *err != nil {
		slog.Debug("suppressing cursor release failure",
			"primary", *err, "error", relErr)
	}
	*same = false
	*err = reduce.Suppress(*err, relErr)
}
