// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seq_test

import (
	"context"

	"vawter.tech/reduce/seq"
)

// scripted is an instrumented sequence that does not implement
// seq.Indexed, forcing comparisons onto the cursor path.
type scripted struct {
	name   string
	data   []int
	events *[]string

	closeErr error // Returned from every Close.
	failAt   int   // The element index at which Next fails.
	nextErr  error // Enables failAt.
	openErr  error
	panics   bool // Panic with nextErr instead of returning it.

	closed int
	opened int
}

var _ seq.Sequence[int] = (*scripted)(nil)

func newScripted(name string, events *[]string, data ...int) *scripted {
	return &scripted{name: name, data: data, events: events}
}

func (p *scripted) Cursor(context.Context) (seq.Cursor[int], error) {
	p.log("open")
	if p.openErr != nil {
		return nil, p.openErr
	}
	p.opened++
	return &scriptedCursor{p: p}, nil
}

func (p *scripted) log(event string) {
	if p.events != nil {
		*p.events = append(*p.events, event+" "+p.name)
	}
}

type scriptedCursor struct {
	p   *scripted
	idx int
}

func (c *scriptedCursor) Close() error {
	c.p.log("close")
	c.p.closed++
	return c.p.closeErr
}

func (c *scriptedCursor) Next(context.Context) (int, bool, error) {
	c.p.log("next")
	if c.p.nextErr != nil && c.idx == c.p.failAt {
		if c.p.panics {
			panic(c.p.nextErr)
		}
		return 0, false, c.p.nextErr
	}
	if c.idx >= len(c.p.data) {
		return 0, false, nil
	}
	ret := c.p.data[c.idx]
	c.idx++
	return ret, true, nil
}

// counted is an indexed sequence that counts element accesses.
type counted struct {
	seq.Slice[int]
	accesses *int
}

var _ seq.Indexed[int] = counted{}

func (c counted) At(idx int) int {
	*c.accesses++
	return c.Slice.At(idx)
}
