// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package reduce provides terminal reducers that answer equivalence and
// membership questions about sequences, with strict ownership of the
// producers they consume.
//
// The module is organized around two independent primitives:
//
//  1. [vawter.tech/reduce/seq.EqualFunc] compares two pull-style
//     sequences element by element. Both cursors are released exactly
//     once, in reverse acquisition order, on every exit path.
//  2. [vawter.tech/reduce/push.Contains] reduces a push-style stream
//     into exactly one boolean, unsubscribing from the source as soon
//     as the answer is known.
//
// This package defines the pieces shared by both: the [Comparer]
// capability and the error taxonomy.
//
// # Comparers
//
// A [Comparer] is a possibly-failing equality predicate. Use
// [ComparerFunc] to adapt a fallible function, [Predicate] to adapt an
// infallible one, [Comparable] for the == operator and [Deep] for
// [reflect.DeepEqual]. Functions accepting a Comparer treat nil as the
// package default documented on each function.
//
//	eq := reduce.Predicate(strings.EqualFold)
//	same, err := seq.EqualFunc(ctx, a, b, eq)
//
// # Errors
//
// Failures are reported as one of the following types, each of which
// wraps its cause so that [errors.Is] and [errors.As] work as expected:
//
//   - [ArgumentError] when a required sequence or source is nil.
//   - [ComparerError] when the equality predicate fails or panics.
//   - [ProducerError] when a producer fails to open or advance.
//   - [CancellationError] when a context ends at a suspension point.
//   - [ReleaseError] when releasing a cursor fails.
//
// When a release fails while another failure is already being
// reported, the release failure is attached to a [SuppressedError]
// rather than replacing the original failure.
//
// # Retrying, pacing, and leak detection
//
// The [vawter.tech/reduce/retry] sub-package wraps a sequence so that
// failed cursor operations are retried with an exponential
// [vawter.tech/reduce/retry.Backoff] or a trivial
// [vawter.tech/reduce/retry.Loop]. The [vawter.tech/reduce/limit]
// sub-package paces cursors with a token-bucket rate limiter or bounds
// the number of open cursors. The [vawter.tech/reduce/linger]
// sub-package records where cursors and subscriptions were acquired so
// that tests can detect leaks.
package reduce
