// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package push reduces push-style event streams.
//
// An [Observable] delivers notifications to an [Observer]. Every
// subscription begins with exactly one call to [Observer.OnSubscribe],
// which hands the observer the [Subscription] it may use to cancel
// delivery. That call is followed by zero or more calls to
// [Observer.OnNext] and at most one terminal call to either
// [Observer.OnError] or [Observer.OnCompleted]. Notifications for a
// single subscription are never delivered concurrently.
//
// Because the subscription handle arrives before any items, an
// observer can stop a synchronous source partway through its first
// delivery pass. The sources in this package check for cancellation
// after every item, so nothing is pulled from the underlying iterator
// once the observer has unsubscribed.
//
// [Contains] is a terminal reducer: it emits exactly one boolean
// followed by completion, or a single error.
package push

// A Subscription cancels the delivery of notifications. Unsubscribe may
// be called more than once, but implementations need only honor the
// first call.
type Subscription interface {
	Unsubscribe()
}

// SubscriptionFunc adapts a function to the [Subscription] interface.
type SubscriptionFunc func()

// Unsubscribe implements [Subscription].
func (fn SubscriptionFunc) Unsubscribe() { fn() }

// An Observer receives notifications from an [Observable].
type Observer[T any] interface {
	// OnSubscribe is called exactly once, before any other method.
	OnSubscribe(sub Subscription)
	// OnNext is called for each item.
	OnNext(item T)
	// OnError is a terminal notification.
	OnError(err error)
	// OnCompleted is a terminal notification.
	OnCompleted()
}

// An Observable is a source of notifications.
type Observable[T any] interface {
	// Subscribe begins delivering notifications to the observer. The
	// returned Subscription is the same handle passed to
	// [Observer.OnSubscribe]. Synchronous sources may deliver every
	// notification before Subscribe returns.
	Subscribe(o Observer[T]) Subscription
}

// ObservableFunc adapts a function to the [Observable] interface.
type ObservableFunc[T any] func(o Observer[T]) Subscription

// Subscribe implements [Observable].
func (fn ObservableFunc[T]) Subscribe(o Observer[T]) Subscription { return fn(o) }

// ObserverFuncs adapts callbacks to the [Observer] interface. Nil
// callbacks are ignored.
type ObserverFuncs[T any] struct {
	Subscribe func(Subscription)
	Next      func(T)
	Error     func(error)
	Completed func()
}

var _ Observer[int] = ObserverFuncs[int]{}

// OnSubscribe implements [Observer].
func (o ObserverFuncs[T]) OnSubscribe(sub Subscription) {
	if o.Subscribe != nil {
		o.Subscribe(sub)
	}
}

// OnNext implements [Observer].
func (o ObserverFuncs[T]) OnNext(item T) {
	if o.Next != nil {
		o.Next(item)
	}
}

// OnError implements [Observer].
func (o ObserverFuncs[T]) OnError(err error) {
	if o.Error != nil {
		o.Error(err)
	}
}

// OnCompleted implements [Observer].
func (o ObserverFuncs[T]) OnCompleted() {
	if o.Completed != nil {
		o.Completed()
	}
}
