// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seq

import (
	"context"
	"iter"
	"sync"
)

// Slice is an [Indexed] sequence backed by a slice.
type Slice[T any] []T

var _ Indexed[int] = Slice[int](nil)

// At implements [Indexed].
func (s Slice[T]) At(idx int) T { return s[idx] }

// Cursor implements [Sequence].
func (s Slice[T]) Cursor(context.Context) (Cursor[T], error) {
	return &sliceCursor[T]{data: s}, nil
}

// Len implements [Indexed].
func (s Slice[T]) Len() int { return len(s) }

type sliceCursor[T any] struct {
	data []T
	idx  int
}

func (c *sliceCursor[T]) Close() error {
	c.data = nil
	return nil
}

func (c *sliceCursor[T]) Next(context.Context) (T, bool, error) {
	if c.idx >= len(c.data) {
		var zero T
		return zero, false, nil
	}
	ret := c.data[c.idx]
	c.idx++
	return ret, true, nil
}

// Values adapts an [iter.Seq] to a [Sequence]. Each cursor pulls from a
// fresh iteration of the argument, so the iterator should be
// repeatable if more than one cursor will be acquired.
func Values[T any](items iter.Seq[T]) Sequence[T] {
	return SequenceFunc[T](func(context.Context) (Cursor[T], error) {
		next, stop := iter.Pull(items)
		return &pullCursor[T]{
			next: func() (T, bool, error) {
				v, ok := next()
				return v, ok, nil
			},
			stop: stop,
		}, nil
	})
}

// Fallible adapts an iterator of value-error pairs to a [Sequence]. A
// non-nil error fails the cursor's Next call; the value paired with it
// is discarded.
func Fallible[T any](items iter.Seq2[T, error]) Sequence[T] {
	return SequenceFunc[T](func(context.Context) (Cursor[T], error) {
		next, stop := iter.Pull2(items)
		return &pullCursor[T]{
			next: func() (T, bool, error) {
				v, err, ok := next()
				if err != nil {
					var zero T
					return zero, false, err
				}
				return v, ok, nil
			},
			stop: stop,
		}, nil
	})
}

// pullCursor adapts the functions returned by [iter.Pull]. The stop
// function is idempotent, but the iterator is not safe for concurrent
// use, so a mutex guards against a Close racing a Next.
type pullCursor[T any] struct {
	mu   sync.Mutex
	next func() (T, bool, error)
	stop func()
}

func (c *pullCursor[T]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stop()
	return nil
}

func (c *pullCursor[T]) Next(context.Context) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next()
}

// Chan adapts a channel to a [Sequence]. The sequence is exhausted when
// the channel is closed. A channel may be read only once, so all
// cursors acquired from the sequence share the same channel. Next
// blocks until a value is available or the context is done.
func Chan[T any](ch <-chan T) Sequence[T] {
	return SequenceFunc[T](func(context.Context) (Cursor[T], error) {
		return &chanCursor[T]{ch: ch}, nil
	})
}

type chanCursor[T any] struct {
	ch <-chan T
}

func (c *chanCursor[T]) Close() error { return nil }

func (c *chanCursor[T]) Next(ctx context.Context) (T, bool, error) {
	select {
	case v, ok := <-c.ch:
		return v, ok, nil
	case <-ctx.Done():
		var zero T
		return zero, false, context.Cause(ctx)
	}
}
