// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package linger

import (
	"fmt"
	"runtime"
	"strings"
)

// TestingT is the subset of [testing.TB] needed by [CheckClean].
type TestingT interface {
	Errorf(string, ...any)
}

// CheckClean will record a test error if there are any cursors or
// subscriptions that have not been released, or if any were released
// more than once. Each unreleased resource is reported with the stack
// where it was acquired.
func CheckClean(t TestingT, r *Recorder) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	if extra := r.Extra(); extra > 0 {
		t.Errorf("%d redundant release calls detected", extra)
	}

	callers := r.Callers()
	if len(callers) == 0 {
		return
	}
	t.Errorf("unreleased resources detected: %d", len(callers))
	for _, stack := range callers {
		t.Errorf("  acquired at:\n%s", formatStack(stack))
	}
}

func formatStack(stack []uintptr) string {
	var sb strings.Builder
	frames := runtime.CallersFrames(stack)
	for {
		frame, more := frames.Next()
		_, _ = fmt.Fprintf(&sb, "    %s ( %s:%d )\n", frame.Function, frame.File, frame.Line)
		if !more {
			return sb.String()
		}
	}
}
