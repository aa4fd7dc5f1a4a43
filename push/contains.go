// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package push

import (
	"vawter.tech/reduce"
	"vawter.tech/reduce/internal/metrics"
	"vawter.tech/reduce/internal/safe"
	"vawter.tech/reduce/internal/state"
)

// Contains returns an [Observable] that reports whether the source
// emits an item equal to the target. If eq is nil, [reduce.Deep] is
// used.
//
// Each subscription to the returned Observable subscribes once to the
// source and emits exactly one of:
//   - true followed by completion, as soon as a matching item arrives;
//   - false followed by completion, if the source completes without a
//     match;
//   - the source's error, unchanged, if the source fails first;
//   - a [reduce.ComparerError], if the comparer fails or panics.
//
// In each case the source subscription is canceled immediately after
// the terminal notification, exactly once, and no further items are
// examined. Notifications that race with or follow the terminal one
// are ignored. Canceling the returned subscription also cancels the
// source subscription, without emitting anything. A source that
// terminates before handing over its subscription through
// [Observer.OnSubscribe] has the handle returned from Subscribe
// canceled as soon as that call returns.
//
// A [reduce.ArgumentError] is returned if source is nil or is a nil
// pointer or function.
func Contains[T any](
	source Observable[T], target T, eq reduce.Comparer[T],
) (Observable[bool], error) {
	if safe.IsNil(source) {
		return nil, &reduce.ArgumentError{Name: "source"}
	}
	eq = reduce.OrDeep(eq)

	return ObservableFunc[bool](func(o Observer[bool]) Subscription {
		sink := &containsSink[T]{
			downstream: o,
			eq:         eq,
			target:     target,
		}
		o.OnSubscribe(sink)
		if sink.term.IsTerminated() {
			return sink
		}
		// The handle may arrive via OnSubscribe, the return value, or
		// both. The slot keeps only the first.
		if h := source.Subscribe(sink); h != nil {
			sink.upstream.Set(func() { _ = safe.Unsubscribe(h.Unsubscribe) })
		}
		return sink
	}), nil
}

// ContainsComparable is a version of [Contains] that uses the ==
// operator.
func ContainsComparable[T comparable](source Observable[T], target T) (Observable[bool], error) {
	return Contains(source, target, reduce.Comparable[T]())
}

// containsSink is both the Observer of the source and the Subscription
// handed downstream.
type containsSink[T any] struct {
	downstream Observer[bool]
	eq         reduce.Comparer[T]
	target     T
	term       state.Terminal
	upstream   state.Slot
}

var (
	_ Observer[int] = (*containsSink[int])(nil)
	_ Subscription  = (*containsSink[int])(nil)
)

// OnSubscribe implements [Observer]. A handle that arrives after the
// sink has terminated is canceled immediately. Only the first handle
// is retained.
func (s *containsSink[T]) OnSubscribe(sub Subscription) {
	s.upstream.Set(func() { _ = safe.Unsubscribe(sub.Unsubscribe) })
}

// OnNext implements [Observer].
func (s *containsSink[T]) OnNext(item T) {
	if s.term.IsTerminated() {
		return
	}
	match, err := safe.Compare(s.eq, item, s.target)
	switch {
	case err != nil:
		s.fail(err)
	case match:
		s.succeed(true)
	}
}

// OnError implements [Observer].
func (s *containsSink[T]) OnError(err error) {
	s.fail(err)
}

// OnCompleted implements [Observer].
func (s *containsSink[T]) OnCompleted() {
	s.succeed(false)
}

// Unsubscribe implements [Subscription] for the downstream observer.
func (s *containsSink[T]) Unsubscribe() {
	if !s.term.Terminate() {
		return
	}
	metrics.TrackContains(metrics.OutcomeCanceled)
	s.upstream.Dispose()
}

func (s *containsSink[T]) fail(err error) {
	if !s.term.Terminate() {
		return
	}
	metrics.TrackContains(metrics.OutcomeError)
	defer s.upstream.Dispose()
	s.downstream.OnError(err)
}

func (s *containsSink[T]) succeed(found bool) {
	if !s.term.Terminate() {
		return
	}
	if found {
		metrics.TrackContains(metrics.OutcomeTrue)
	} else {
		metrics.TrackContains(metrics.OutcomeFalse)
	}
	defer s.upstream.Dispose()
	s.downstream.OnNext(found)
	s.downstream.OnCompleted()
}
