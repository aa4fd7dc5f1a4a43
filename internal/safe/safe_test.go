// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package safe

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"vawter.tech/reduce"
)

// requireStack asserts that the RecoveredError has a non-empty Stack
// whose frames include the named function.
func requireStack(r *require.Assertions, err error, funcName string) {
	var recovered *RecoveredError
	r.ErrorAs(err, &recovered)
	r.NotEmpty(recovered.Stack)

	frames := runtime.CallersFrames(recovered.Stack)
	var found bool
	for {
		frame, more := frames.Next()
		if strings.Contains(frame.Function, funcName) {
			found = true
			break
		}
		if !more {
			break
		}
	}
	r.True(found, "expected stack to contain %q, got:\n%s",
		funcName, recovered.String())
}

func TestCompare(t *testing.T) {
	r := require.New(t)

	same, err := Compare(reduce.Comparable[int](), 1, 1)
	r.NoError(err)
	r.True(same)

	same, err = Compare(reduce.Comparable[int](), 1, 2)
	r.NoError(err)
	r.False(same)

	// Returned error.
	boom := errors.New("boom")
	same, err = Compare[int](reduce.ComparerFunc[int](func(int, int) (bool, error) {
		return true, boom
	}), 1, 1)
	r.False(same)
	r.ErrorIs(err, boom)
	var cmpErr *reduce.ComparerError
	r.ErrorAs(err, &cmpErr)

	// Panic with error.
	_, err = Compare[int](reduce.ComparerFunc[int](func(int, int) (bool, error) {
		panic(boom)
	}), 1, 1)
	r.ErrorIs(err, boom)
	r.ErrorAs(err, &cmpErr)
	requireStack(r, err, "TestCompare")

	// Panic with non-error.
	_, err = Compare[int](reduce.ComparerFunc[int](func(int, int) (bool, error) {
		panic("yikes")
	}), 1, 1)
	r.ErrorContains(err, "yikes")
	requireStack(r, err, "TestCompare")
}

func TestNext(t *testing.T) {
	r := require.New(t)

	v, ok, err := Next(t.Context(), func(context.Context) (int, bool, error) {
		return 42, true, nil
	})
	r.NoError(err)
	r.True(ok)
	r.Equal(42, v)

	// Returned errors pass through unwrapped.
	boom := errors.New("boom")
	_, _, err = Next(t.Context(), func(context.Context) (int, bool, error) {
		return 0, false, boom
	})
	r.Same(boom, err)

	v, ok, err = Next(t.Context(), func(context.Context) (int, bool, error) {
		panic("yikes")
	})
	r.Zero(v)
	r.False(ok)
	var prodErr *reduce.ProducerError
	r.ErrorAs(err, &prodErr)
	r.ErrorContains(err, "yikes")
	requireStack(r, err, "TestNext")
}

func TestOpen(t *testing.T) {
	r := require.New(t)

	v, err := Open(func() (string, error) { return "ok", nil })
	r.NoError(err)
	r.Equal("ok", v)

	_, err = Open(func() (string, error) { panic("yikes") })
	var prodErr *reduce.ProducerError
	r.ErrorAs(err, &prodErr)
	requireStack(r, err, "TestOpen")
}

func TestClose(t *testing.T) {
	r := require.New(t)

	r.NoError(Close(func() error { return nil }))

	boom := errors.New("boom")
	err := Close(func() error { return boom })
	r.ErrorIs(err, boom)
	var relErr *reduce.ReleaseError
	r.ErrorAs(err, &relErr)

	err = Close(func() error { panic(boom) })
	r.ErrorIs(err, boom)
	r.ErrorAs(err, &relErr)
	requireStack(r, err, "TestClose")
}

func TestUnsubscribe(t *testing.T) {
	r := require.New(t)

	called := false
	r.NoError(Unsubscribe(func() { called = true }))
	r.True(called)

	err := Unsubscribe(func() { panic("yikes") })
	r.ErrorContains(err, "yikes")
	requireStack(r, err, "TestUnsubscribe")
}

func TestIsNil(t *testing.T) {
	r := require.New(t)

	var nilPtr *RecoveredError
	var nilFunc func()
	var nilSlice []int

	r.True(IsNil(nil))
	r.True(IsNil(nilPtr))
	r.True(IsNil(nilFunc))
	r.False(IsNil(nilSlice))
	r.False(IsNil(&RecoveredError{}))
	r.False(IsNil(func() {}))
	r.False(IsNil(42))
}
