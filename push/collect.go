// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package push

import (
	"context"
	"sync"

	"vawter.tech/reduce"
	"vawter.tech/reduce/internal/state"
)

// Collect subscribes to the Observable and blocks until it terminates,
// returning every item received. If the Observable fails, the items
// received so far are returned along with its error. If the context is
// done first, the subscription is canceled and a
// [reduce.CancellationError] is returned. The subscription is always
// canceled before Collect returns.
func Collect[T any](ctx context.Context, o Observable[T]) ([]T, error) {
	var handle state.Slot
	defer handle.Dispose()

	done := make(chan struct{})
	var mu struct {
		sync.Mutex
		done  bool
		err   error
		items []T
	}
	finish := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if mu.done {
			return
		}
		mu.done = true
		mu.err = err
		close(done)
	}

	h := o.Subscribe(ObserverFuncs[T]{
		Subscribe: func(sub Subscription) {
			handle.Set(sub.Unsubscribe)
		},
		Next: func(item T) {
			mu.Lock()
			defer mu.Unlock()
			if !mu.done {
				mu.items = append(mu.items, item)
			}
		},
		Error:     finish,
		Completed: func() { finish(nil) },
	})
	if h != nil {
		handle.Set(h.Unsubscribe)
	}

	select {
	case <-done:
	case <-ctx.Done():
		finish(&reduce.CancellationError{Err: context.Cause(ctx)})
	}

	mu.Lock()
	defer mu.Unlock()
	return mu.items, mu.err
}
