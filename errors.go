// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package reduce

import (
	"fmt"
	"strings"
)

// An ArgumentError is returned when a required argument is nil.
type ArgumentError struct {
	Name string // The parameter name.
}

// Error implements error.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument %s must not be nil", e.Name)
}

// A ComparerError indicates that an equality predicate failed.
type ComparerError struct {
	Err error
}

// Error implements error.
func (e *ComparerError) Error() string {
	return fmt.Sprintf("comparer: %v", e.Err)
}

// Unwrap returns the enclosed error.
func (e *ComparerError) Unwrap() error { return e.Err }

// A ProducerError indicates that a sequence could not be opened or
// advanced.
type ProducerError struct {
	Err error
}

// Error implements error.
func (e *ProducerError) Error() string {
	return fmt.Sprintf("producer: %v", e.Err)
}

// Unwrap returns the enclosed error.
func (e *ProducerError) Unwrap() error { return e.Err }

// A CancellationError is returned when a context was canceled or its
// deadline passed. The enclosed error is the context's cause, so
// [errors.Is] will match [context.Canceled] or
// [context.DeadlineExceeded].
type CancellationError struct {
	Err error
}

// Error implements error.
func (e *CancellationError) Error() string {
	return fmt.Sprintf("canceled: %v", e.Err)
}

// Unwrap returns the enclosed error.
func (e *CancellationError) Unwrap() error { return e.Err }

// A ReleaseError indicates that a cursor could not be released.
type ReleaseError struct {
	Err error
}

// Error implements error.
func (e *ReleaseError) Error() string {
	return fmt.Sprintf("release: %v", e.Err)
}

// Unwrap returns the enclosed error.
func (e *ReleaseError) Unwrap() error { return e.Err }

// A SuppressedError reports a primary failure along with secondary
// failures that occurred while cleaning up after it. The primary
// failure determines the outcome; the suppressed errors are retained
// for diagnostics and are reachable via [errors.Is] and [errors.As].
type SuppressedError struct {
	Err        error   // The primary failure.
	Suppressed []error // Secondary failures, in the order observed.
}

// Error implements error.
func (e *SuppressedError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Err.Error())
	sb.WriteString(" (suppressed: ")
	for idx, err := range e.Suppressed {
		if idx > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	sb.WriteString(")")
	return sb.String()
}

// Unwrap returns the primary failure followed by the suppressed ones.
func (e *SuppressedError) Unwrap() []error {
	ret := make([]error, 0, len(e.Suppressed)+1)
	ret = append(ret, e.Err)
	return append(ret, e.Suppressed...)
}

// Suppress combines a primary failure with a secondary one. If primary
// is nil, secondary is returned unchanged. If secondary is nil, primary
// is returned unchanged. Repeated calls accumulate onto a single
// [SuppressedError].
func Suppress(primary, secondary error) error {
	switch {
	case secondary == nil:
		return primary
	case primary == nil:
		return secondary
	}
	if s, ok := primary.(*SuppressedError); ok {
		return &SuppressedError{
			Err:        s.Err,
			Suppressed: append(s.Suppressed[:len(s.Suppressed):len(s.Suppressed)], secondary),
		}
	}
	return &SuppressedError{Err: primary, Suppressed: []error{secondary}}
}
