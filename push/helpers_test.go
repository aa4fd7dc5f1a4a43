// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package push

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

// recorder is an Observer that logs every notification.
type recorder[T any] struct {
	mu     sync.Mutex
	events []string
	sub    Subscription
}

func (r *recorder[T]) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

func (r *recorder[T]) OnSubscribe(sub Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sub = sub
}

func (r *recorder[T]) OnNext(item T) { r.log(fmt.Sprintf("next %v", item)) }

func (r *recorder[T]) OnError(err error) { r.log("error " + err.Error()) }

func (r *recorder[T]) OnCompleted() { r.log("completed") }

func (r *recorder[T]) log(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// countingSub counts calls to Unsubscribe.
type countingSub struct {
	calls atomic.Int32
}

func (s *countingSub) Unsubscribe() { s.calls.Add(1) }

// script returns an Observable that delivers a counting handle and
// then runs the script against the observer, regardless of whether the
// observer has unsubscribed.
func script[T any](sub *countingSub, fn func(o Observer[T])) Observable[T] {
	return ObservableFunc[T](func(o Observer[T]) Subscription {
		o.OnSubscribe(sub)
		fn(o)
		return sub
	})
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
