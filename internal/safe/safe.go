// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package safe contains utilities for executing collaborator-provided
// functions (comparers, cursors, subscriptions) so that a panic is
// reported as an error of the appropriate kind.
package safe

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"strings"

	"vawter.tech/reduce"
)

const captureDepth = 32

// A RecoveredError associates an error with a stack trace.
type RecoveredError struct {
	Err   error
	Stack []uintptr
}

// Error implements error.
func (e *RecoveredError) Error() string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "recovered: %v\n", e.Err)
	frames := runtime.CallersFrames(e.Stack)
	for {
		frame, more := frames.Next()
		_, _ = fmt.Fprintf(&sb, "%s ( %s:%d )\n", frame.Function, frame.File, frame.Line)

		if !more {
			return sb.String()
		}
	}
}

// String is for debugging use only.
func (e *RecoveredError) String() string {
	return e.Error()
}

// Unwrap return the enclosed error.
func (e *RecoveredError) Unwrap() error { return e.Err }

// recovered converts a value returned from recover() into an error. It
// must be called from the deferred function so that the stack skip
// lands on the panicking frame.
func recovered(r any) error {
	var err error
	switch t := r.(type) {
	case error:
		err = t
	default:
		err = fmt.Errorf("panic: %v", t)
	}
	stack := make([]uintptr, captureDepth)
	stack = stack[:runtime.Callers(3, stack)]
	return &RecoveredError{
		Err:   err,
		Stack: stack,
	}
}

// Compare invokes the comparer. Any returned error or panic is wrapped
// in a [reduce.ComparerError].
func Compare[T any](eq reduce.Comparer[T], a, b T) (same bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			same, err = false, &reduce.ComparerError{Err: recovered(r)}
		}
	}()
	same, err = eq.Equal(a, b)
	if err != nil {
		return false, &reduce.ComparerError{Err: err}
	}
	return same, nil
}

// Next invokes a cursor's advance function. A panic is wrapped in a
// [reduce.ProducerError]. Returned errors are passed through so that
// the caller may classify them.
func Next[T any](
	ctx context.Context, fn func(context.Context) (T, bool, error),
) (ret T, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			ret, ok, err = zero, false, &reduce.ProducerError{Err: recovered(r)}
		}
	}()
	return fn(ctx)
}

// Open invokes a function that acquires a resource. A panic is wrapped
// in a [reduce.ProducerError]. Returned errors are passed through.
func Open[R any](fn func() (R, error)) (ret R, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero R
			ret, err = zero, &reduce.ProducerError{Err: recovered(r)}
		}
	}()
	return fn()
}

// Close invokes a release function. Any returned error or panic is
// wrapped in a [reduce.ReleaseError].
func Close(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &reduce.ReleaseError{Err: recovered(r)}
		}
	}()
	if err := fn(); err != nil {
		return &reduce.ReleaseError{Err: err}
	}
	return nil
}

// Unsubscribe invokes a cancellation function that has no error
// channel. A panic is logged, since by the time a subscription is being
// torn down there is no remaining downstream to report it to.
func Unsubscribe(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
			slog.Warn("unsubscribe panicked", "error", err)
		}
	}()
	fn()
	return nil
}

// IsNil reports whether v is nil or wraps a nil pointer or function.
// Other nil-able kinds, such as slices, are reported as non-nil since
// a nil slice is a usable collection.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Func, reflect.Pointer:
		return rv.IsNil()
	default:
		return false
	}
}
