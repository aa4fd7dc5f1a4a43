// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package push

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
)

type kind int

const (
	kindNext kind = iota
	kindError
	kindCompleted
)

type notification[T any] struct {
	err  error
	item T
	kind kind
}

func (n notification[T]) deliver(o Observer[T]) {
	switch n.kind {
	case kindNext:
		o.OnNext(n.item)
	case kindError:
		o.OnError(n.err)
	case kindCompleted:
		o.OnCompleted()
	}
}

// A Subject is a hot [Observable] that broadcasts the notifications
// passed to its methods. Observers only see notifications emitted after
// they subscribe, except that a Subject which has already terminated
// replays its terminal notification to late observers.
//
// The emitting methods may be called concurrently. Notifications are
// queued and delivered in emission order by whichever caller finds the
// Subject idle, so observers never receive concurrent calls. An
// emitting method called from within an observer callback enqueues its
// notification and returns immediately.
//
// An observer that unsubscribes while a notification is being
// delivered may still receive that notification.
type Subject[T any] struct {
	mu struct {
		sync.Mutex
		draining  bool
		nextID    uint64
		observers map[uint64]Observer[T]
		pending   *queue.Queue // Of notification[T].
		terminal  *notification[T]
	}
}

var _ Observable[int] = (*Subject[int])(nil)

// NewSubject constructs a Subject.
func NewSubject[T any]() *Subject[T] {
	ret := &Subject[T]{}
	ret.mu.observers = make(map[uint64]Observer[T])
	ret.mu.pending = queue.New()
	return ret
}

// Complete emits a completion notification. Later emissions are
// ignored.
func (s *Subject[T]) Complete() {
	s.emit(notification[T]{kind: kindCompleted})
}

// Error emits a failure notification. Later emissions are ignored.
func (s *Subject[T]) Error(err error) {
	s.emit(notification[T]{kind: kindError, err: err})
}

// Len returns the number of subscribed observers.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mu.observers)
}

// Next emits an item.
func (s *Subject[T]) Next(item T) {
	s.emit(notification[T]{kind: kindNext, item: item})
}

// Subscribe implements [Observable].
func (s *Subject[T]) Subscribe(o Observer[T]) Subscription {
	s.mu.Lock()
	id := s.mu.nextID
	s.mu.nextID++
	s.mu.Unlock()

	sub := &subjectSubscription[T]{id: id, subject: s}
	o.OnSubscribe(sub)

	// Register only after the handle has been delivered. The observer
	// may have already canceled.
	s.mu.Lock()
	if term := s.mu.terminal; term != nil {
		s.mu.Unlock()
		if !sub.done.Load() {
			term.deliver(o)
		}
		return sub
	}
	if !sub.done.Load() {
		s.mu.observers[id] = o
	}
	s.mu.Unlock()
	return sub
}

// emit enqueues the notification and drains the queue if no other
// caller is already doing so. Observers are invoked without holding
// the mutex.
func (s *Subject[T]) emit(n notification[T]) {
	s.mu.Lock()
	if s.mu.terminal != nil {
		s.mu.Unlock()
		return
	}
	if n.kind != kindNext {
		s.mu.terminal = &n
	}
	s.mu.pending.Add(n)
	if s.mu.draining {
		s.mu.Unlock()
		return
	}
	s.mu.draining = true

	for s.mu.pending.Length() > 0 {
		next := s.mu.pending.Remove().(notification[T])

		ids := slices.Sorted(maps.Keys(s.mu.observers))
		targets := make([]Observer[T], len(ids))
		for idx, id := range ids {
			targets[idx] = s.mu.observers[id]
		}
		if next.kind != kindNext {
			clear(s.mu.observers)
		}

		s.mu.Unlock()
		for _, o := range targets {
			next.deliver(o)
		}
		s.mu.Lock()
	}
	s.mu.draining = false
	s.mu.Unlock()
}

type subjectSubscription[T any] struct {
	done    atomic.Bool
	id      uint64
	subject *Subject[T]
}

func (s *subjectSubscription[T]) Unsubscribe() {
	if !s.done.CompareAndSwap(false, true) {
		return
	}
	s.subject.mu.Lock()
	defer s.subject.mu.Unlock()
	delete(s.subject.mu.observers, s.id)
}
