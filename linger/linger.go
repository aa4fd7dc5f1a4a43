// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package linger contains a utility for reporting on where unreleased
// cursors and subscriptions were originally acquired.
package linger

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"vawter.tech/reduce/push"
	"vawter.tech/reduce/seq"
)

// This value is sensitive to the code structure.
const callersOffset = 4

// NewRecorder constructs a [Recorder] that samples the call stack at
// the requested depth.
func NewRecorder(depth int) *Recorder {
	return &Recorder{depth: depth}
}

// A Recorder records the call stack where cursors are acquired from a
// tracked [seq.Sequence] and where a tracked [push.Observable] hands out
// subscriptions. It is primarily useful for testing scenarios, to
// ensure that every cursor is closed and every subscription is canceled
// exactly once.
type Recorder struct {
	counter atomic.Uintptr
	data    sync.Map
	depth   int
	extra   atomic.Int64
}

// Callers returns a snapshot of the caller stacks associated with any
// cursors or subscriptions that are still outstanding.
func (r *Recorder) Callers() [][]uintptr {
	var ret [][]uintptr
	r.data.Range(func(_, value any) bool {
		ret = append(ret, value.([]uintptr))
		return true
	})
	return ret
}

// Extra returns the number of release calls beyond the first for any
// tracked cursor or subscription.
func (r *Recorder) Extra() int {
	return int(r.extra.Load())
}

// Len returns the number of outstanding cursors and subscriptions.
func (r *Recorder) Len() int {
	count := 0
	r.data.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// acquire records the caller and returns a function to mark the
// resource as released.
func (r *Recorder) acquire() (release func()) {
	pc := make([]uintptr, r.depth)
	pc = pc[:runtime.Callers(callersOffset, pc)]

	id := r.counter.Add(1)
	r.data.Store(id, pc)

	var once atomic.Bool
	return func() {
		if once.CompareAndSwap(false, true) {
			r.data.Delete(id)
		} else {
			r.extra.Add(1)
		}
	}
}

// Track returns a [seq.Sequence] whose cursors are recorded by the
// Recorder until they are closed.
func Track[T any](r *Recorder, s seq.Sequence[T]) seq.Sequence[T] {
	return seq.SequenceFunc[T](func(ctx context.Context) (seq.Cursor[T], error) {
		c, err := s.Cursor(ctx)
		if err != nil {
			return nil, err
		}
		return &trackedCursor[T]{Cursor: c, release: r.acquire()}, nil
	})
}

type trackedCursor[T any] struct {
	seq.Cursor[T]
	release func()
}

func (c *trackedCursor[T]) Close() error {
	c.release()
	return c.Cursor.Close()
}

// TrackSource returns a [push.Observable] whose subscriptions are
// recorded by the Recorder until they are canceled.
func TrackSource[T any](r *Recorder, o push.Observable[T]) push.Observable[T] {
	return push.ObservableFunc[T](func(obs push.Observer[T]) push.Subscription {
		tracked := &trackedObserver[T]{Observer: obs, r: r}
		sub := o.Subscribe(tracked)
		if tracked.handle != nil {
			return tracked.handle
		}
		return sub
	})
}

// trackedObserver swaps the subscription handle for a recording one.
type trackedObserver[T any] struct {
	push.Observer[T]
	handle push.Subscription
	r      *Recorder
}

func (o *trackedObserver[T]) OnSubscribe(sub push.Subscription) {
	release := o.r.acquire()
	o.handle = push.SubscriptionFunc(func() {
		release()
		sub.Unsubscribe()
	})
	o.Observer.OnSubscribe(o.handle)
}
