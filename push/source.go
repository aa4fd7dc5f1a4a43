// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package push

import (
	"iter"
	"slices"
	"sync/atomic"
)

// subscription is the handle used by the cold sources.
type subscription struct {
	done atomic.Bool
}

func (s *subscription) Unsubscribe() { s.done.Store(true) }

func (s *subscription) active() bool { return !s.done.Load() }

// FromSeq returns a cold [Observable] that delivers each element of the
// sequence, then completes. Each subscription iterates the sequence
// anew, synchronously, within the call to Subscribe. Iteration stops as
// soon as the observer unsubscribes, so later elements are never
// pulled.
func FromSeq[T any](items iter.Seq[T]) Observable[T] {
	return ObservableFunc[T](func(o Observer[T]) Subscription {
		sub := &subscription{}
		o.OnSubscribe(sub)
		if !sub.active() {
			return sub
		}
		for item := range items {
			o.OnNext(item)
			if !sub.active() {
				return sub
			}
		}
		o.OnCompleted()
		return sub
	})
}

// FromSlice is a convenience wrapper around [FromSeq].
func FromSlice[T any](items ...T) Observable[T] {
	return FromSeq(slices.Values(items))
}

// Fail returns an [Observable] that fails immediately with the error.
func Fail[T any](err error) Observable[T] {
	return ObservableFunc[T](func(o Observer[T]) Subscription {
		sub := &subscription{}
		o.OnSubscribe(sub)
		if sub.active() {
			o.OnError(err)
		}
		return sub
	})
}

// Never returns an [Observable] that delivers no notifications after
// the subscription handle.
func Never[T any]() Observable[T] {
	return ObservableFunc[T](func(o Observer[T]) Subscription {
		sub := &subscription{}
		o.OnSubscribe(sub)
		return sub
	})
}
