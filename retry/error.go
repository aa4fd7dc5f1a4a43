// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package retry

import "fmt"

// MaxAttemptsError is returned when a cursor acquisition or a call to
// Next has failed the configured number of times.
type MaxAttemptsError struct {
	Attempts int   // The number of failed attempts.
	Err      error // The most recent failure.
}

// Error implements error.
func (e *MaxAttemptsError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the most recent failure.
func (e *MaxAttemptsError) Unwrap() error { return e.Err }
