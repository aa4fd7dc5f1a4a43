// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package state defines one-shot state transitions used by the
// reducers.
package state

import (
	"sync"
	"sync/atomic"
)

// Terminal is a two-state flag: Active and Terminated. The zero value
// is Active. Terminated is absorbing.
type Terminal struct {
	done atomic.Bool
}

// Terminate moves the flag into the Terminated state. It returns true
// only for the single call that performed the transition.
func (t *Terminal) Terminate() bool {
	return t.done.CompareAndSwap(false, true)
}

// IsTerminated returns true once [Terminal.Terminate] has been called.
func (t *Terminal) IsTerminated() bool {
	return t.done.Load()
}

// A Slot holds a cancellation function that may be assigned before or
// after the owner decides to cancel. The function is invoked at most
// once. The zero value is ready to use.
type Slot struct {
	mu struct {
		sync.Mutex
		cancel   func()
		disposed bool
		set      bool
	}
}

// Set assigns the cancellation function. If the Slot has already been
// disposed, the function is invoked immediately. A Slot accepts only
// one assignment; later calls return false without retaining the
// argument. The function is never invoked while holding the mutex.
func (s *Slot) Set(cancel func()) (accepted bool) {
	s.mu.Lock()
	if s.mu.set {
		s.mu.Unlock()
		return false
	}
	s.mu.set = true
	if !s.mu.disposed {
		s.mu.cancel = cancel
		s.mu.Unlock()
		return true
	}
	s.mu.Unlock()
	cancel()
	return true
}

// Dispose invokes the assigned cancellation function, if any, and
// arranges for a later assignment to be invoked immediately. It returns
// true only for the first call.
func (s *Slot) Dispose() bool {
	s.mu.Lock()
	if s.mu.disposed {
		s.mu.Unlock()
		return false
	}
	s.mu.disposed = true
	cancel := s.mu.cancel
	s.mu.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return true
}

// IsDisposed returns true once [Slot.Dispose] has been called.
func (s *Slot) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mu.disposed
}
