// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package seq compares pull-style sequences.
//
// A [Sequence] hands out [Cursor] values. Each cursor is owned by the
// caller that acquired it and must be closed exactly once. [EqualFunc]
// acquires one cursor from each of its arguments and advances them in
// lockstep, always advancing the first before the second. Both cursors
// are closed, second then first, before EqualFunc returns.
//
// Sequences that also implement [Indexed], such as [Slice], are
// compared without acquiring any cursors.
package seq

import "context"

// A Cursor is an owned handle over a pull-style producer.
type Cursor[T any] interface {
	// Next advances the cursor. It returns the next element and true,
	// or false once the sequence is exhausted. Next may block while
	// the producer computes the next value and should return promptly
	// once the context is done.
	Next(ctx context.Context) (T, bool, error)

	// Close releases any resources held by the cursor. It will be
	// called exactly once by the consumer that acquired the cursor,
	// including after Next has failed.
	Close() error
}

// A Sequence produces cursors.
type Sequence[T any] interface {
	// Cursor acquires a new cursor positioned before the first element.
	Cursor(ctx context.Context) (Cursor[T], error)
}

// Indexed is implemented by materialized sequences of a known length
// that support random access.
type Indexed[T any] interface {
	Sequence[T]
	At(idx int) T
	Len() int
}

// SequenceFunc adapts a function to the [Sequence] interface.
type SequenceFunc[T any] func(ctx context.Context) (Cursor[T], error)

// Cursor implements [Sequence].
func (fn SequenceFunc[T]) Cursor(ctx context.Context) (Cursor[T], error) { return fn(ctx) }
