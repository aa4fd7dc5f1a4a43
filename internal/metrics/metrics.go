// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package metrics exports prometheus counters describing reducer
// outcomes.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"vawter.tech/reduce"
)

const promNamespace = "reduce"

// Comparison paths.
const (
	PathIndexed = "indexed"
	PathCursor  = "cursor"
)

// Outcome labels.
const (
	OutcomeCanceled = "canceled"
	OutcomeEqual    = "equal"
	OutcomeError    = "error"
	OutcomeFalse    = "false"
	OutcomeTrue     = "true"
	OutcomeUnequal  = "unequal"
)

var (
	durationBuckets = []float64{0.0001, 0.001, 0.01, 0.1, 1, 10, 60}

	compareCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "compare_total",
		Help:      "Sequence comparisons by path and outcome.",
	}, []string{"path", "outcome"})

	compareDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: promNamespace,
		Name:      "compare_duration_seconds",
		Help:      "Wall time of sequence comparisons.",
		Buckets:   durationBuckets,
	}, []string{"path"})

	containsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "contains_total",
		Help:      "Membership reductions by outcome.",
	}, []string{"outcome"})

	releaseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "release_failures_total",
		Help:      "Cursors whose release returned an error.",
	})
)

// TrackCompare returns a function to be deferred by a comparison. It
// records the elapsed time and the outcome derived from the final
// result.
func TrackCompare(path string) func(same bool, err error) {
	start := time.Now()
	return func(same bool, err error) {
		compareDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
		compareCounter.WithLabelValues(path, compareOutcome(same, err)).Inc()
	}
}

// TrackContains records the terminal outcome of a membership reduction.
// The outcome should be one of [OutcomeTrue], [OutcomeFalse],
// [OutcomeError], or [OutcomeCanceled].
func TrackContains(outcome string) {
	containsCounter.WithLabelValues(outcome).Inc()
}

// TrackReleaseFailure counts a failed cursor release.
func TrackReleaseFailure() {
	releaseFailures.Inc()
}

func compareOutcome(same bool, err error) string {
	var canceled *reduce.CancellationError
	switch {
	case errors.As(err, &canceled):
		return OutcomeCanceled
	case err != nil:
		return OutcomeError
	case same:
		return OutcomeEqual
	default:
		return OutcomeUnequal
	}
}
