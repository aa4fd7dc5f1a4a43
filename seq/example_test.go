// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seq_test

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"vawter.tech/reduce"
	"vawter.tech/reduce/seq"
)

func ExampleEqual() {
	ctx := context.Background()

	// Slices are compared by length before any elements are examined.
	same, err := seq.Equal[int](ctx, seq.Slice[int]{1, 2, 3}, seq.Slice[int]{1, 2})
	fmt.Println(same, err)

	// Any iterator can be compared by pulling from it.
	lazy := seq.Values(slices.Values([]int{1, 2, 3}))
	same, err = seq.Equal[int](ctx, lazy, seq.Slice[int]{1, 2, 3})
	fmt.Println(same, err)
	// Output:
	// false <nil>
	// true <nil>
}

func ExampleEqualFunc() {
	ctx := context.Background()

	a := seq.Values(slices.Values([]string{"Go", "IS", "fun"}))
	b := seq.Values(slices.Values([]string{"go", "is", "FUN"}))

	same, err := seq.EqualFunc(ctx, a, b, reduce.Predicate(strings.EqualFold))
	fmt.Println(same, err)
	// Output:
	// true <nil>
}

func ExampleChan() {
	ctx := context.Background()

	ch := make(chan string)
	go func() {
		defer close(ch)
		for _, s := range []string{"a", "b"} {
			ch <- s
		}
	}()

	same, err := seq.Equal[string](ctx, seq.Chan[string](ch), seq.Slice[string]{"a", "b"})
	fmt.Println(same, err)
	// Output:
	// true <nil>
}
