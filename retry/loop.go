// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package retry

import (
	"cmp"
	"context"

	"vawter.tech/reduce/seq"
)

// Loop retries failed cursor operations immediately, without waiting.
type Loop struct {
	MaxAttempts int              // Defaults to 2 if unset.
	Retryable   func(error) bool // Defaults to retrying all errors.
}

// WithLoop returns a sequence that retries failed cursor operations
// immediately.
func WithLoop[T any](s seq.Sequence[T], l *Loop) seq.Sequence[T] {
	limit := cmp.Or(l.MaxAttempts, 2)
	retryable := l.Retryable
	if retryable == nil {
		retryable = retryAll
	}
	return Wrap(s, func(_ context.Context, failures *int, err error) (<-chan struct{}, error) {
		if !retryable(err) {
			return nil, err
		}
		*failures++
		if *failures >= limit {
			return nil, &MaxAttemptsError{Attempts: *failures, Err: err}
		}
		ready := make(chan struct{}, 1)
		ready <- struct{}{}
		return ready, nil
	})
}
