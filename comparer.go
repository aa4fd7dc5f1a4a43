// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package reduce

import "reflect"

// A Comparer reports whether two elements are equal. A Comparer may
// fail, in which case the reducer using it reports a [ComparerError].
type Comparer[T any] interface {
	Equal(a, b T) (bool, error)
}

// ComparerFunc adapts a fallible function to the [Comparer] interface.
type ComparerFunc[T any] func(a, b T) (bool, error)

// Equal implements [Comparer].
func (fn ComparerFunc[T]) Equal(a, b T) (bool, error) { return fn(a, b) }

// Predicate adapts an infallible equality function to a [Comparer].
func Predicate[T any](fn func(a, b T) bool) Comparer[T] {
	return ComparerFunc[T](func(a, b T) (bool, error) {
		return fn(a, b), nil
	})
}

// Comparable returns a [Comparer] that uses the == operator.
func Comparable[T comparable]() Comparer[T] {
	return ComparerFunc[T](func(a, b T) (bool, error) {
		return a == b, nil
	})
}

// Deep returns a [Comparer] that uses [reflect.DeepEqual]. It is the
// default for element types that are not known to be comparable.
func Deep[T any]() Comparer[T] {
	return ComparerFunc[T](func(a, b T) (bool, error) {
		return reflect.DeepEqual(a, b), nil
	})
}

// OrDeep returns c, or [Deep] if c is nil.
func OrDeep[T any](c Comparer[T]) Comparer[T] {
	if c == nil {
		return Deep[T]()
	}
	return c
}
