// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package limit wraps a [seq.Sequence] to impose limits on how quickly
// or how widely it is consumed.
//
// In general, rate-limiting should be applied before concurrency
// limits.
package limit

import (
	"context"
	"errors"
	"runtime/trace"
	"sync"

	"golang.org/x/time/rate"
	"vawter.tech/reduce/seq"
)

// Open limits the number of cursors over s that may be open at once.
// Acquiring a cursor blocks until a slot is released by a call to
// [seq.Cursor.Close] or the context is done, in which case the
// context's cause is returned.
//
// A comparison of a sequence with itself acquires two cursors, so the
// limit must be at least two for that to succeed.
func Open[T any](s seq.Sequence[T], limit int) seq.Sequence[T] {
	if limit <= 0 {
		panic(errors.New("limit must be greater than zero"))
	}
	ch := make(chan struct{}, limit)
	return seq.SequenceFunc[T](func(ctx context.Context) (seq.Cursor[T], error) {
		if err := acquire(ctx, ch); err != nil {
			return nil, err
		}
		c, err := s.Cursor(ctx)
		if err != nil || c == nil {
			<-ch
			return c, err
		}
		return &slotCursor[T]{Cursor: c, release: func() { <-ch }}, nil
	})
}

func acquire(ctx context.Context, ch chan<- struct{}) error {
	// Fast-path: A slot is available.
	select {
	case ch <- struct{}{}:
		return nil
	default:
	}

	defer trace.StartRegion(ctx, "concurrency wait").End()

	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

type slotCursor[T any] struct {
	seq.Cursor[T]
	once    sync.Once
	release func()
}

// Close frees the slot exactly once, even if the delegate fails.
func (c *slotCursor[T]) Close() error {
	defer c.once.Do(c.release)
	return c.Cursor.Close()
}

// Rate is a wrapper around a [rate.Limiter] that enforces a rate by
// blocking calls to [seq.Cursor.Next]. The limiter is shared by all
// cursors over the returned sequence. If the context is done, or would
// be done before the wait completes, the limiter's error is returned.
func Rate[T any](s seq.Sequence[T], r float64, b int) seq.Sequence[T] {
	l := rate.NewLimiter(rate.Limit(r), b)
	return seq.SequenceFunc[T](func(ctx context.Context) (seq.Cursor[T], error) {
		c, err := s.Cursor(ctx)
		if err != nil || c == nil {
			return c, err
		}
		return &rateCursor[T]{Cursor: c, limiter: l}, nil
	})
}

type rateCursor[T any] struct {
	seq.Cursor[T]
	limiter *rate.Limiter
}

func (c *rateCursor[T]) Next(ctx context.Context) (T, bool, error) {
	// Fast-path: there's capacity.
	if !c.limiter.Allow() {
		region := trace.StartRegion(ctx, "rate limit wait")
		err := c.limiter.Wait(ctx)
		region.End()
		if err != nil {
			var zero T
			return zero, false, err
		}
	}
	return c.Cursor.Next(ctx)
}
