// Package testutil provides testing utilities for seqgo.
//
// This package is intended for use in tests and benchmarks only. Its core
// tool is the Probe: an instrumented element type whose lifecycle operations
// count construction/destruction events and can be scheduled to fail on the
// k-th invocation, which is how the container's failure guarantees and
// leak-freedom are verified.
//
//	p := &testutil.Probe{CopyErrAt: 3}
//	s := seqgo.New[testutil.Item](seqgo.WithOps(p.Ops()))
//	...
//	if p.Live() != s.Len() { t.Fatal("leak or double destroy") }
package testutil

import (
	"errors"

	"github.com/hupe1980/seqgo"
)

// ErrInjected is the failure returned by scheduled lifecycle errors.
var ErrInjected = errors.New("testutil: injected failure")

// Item is the probe element type.
type Item struct {
	V int
}

// Probe builds instrumented seqgo.Ops for Item and tallies lifetime events.
// Not safe for concurrent use; sequences are single-owner anyway.
type Probe struct {
	// Counters
	Constructs int // New + Ctor invocations that succeeded
	Copies     int // successful Copy invocations
	Moves      int // successful Move invocations (only with FallibleMove)
	Destroys   int // Destroy invocations

	// Failure schedule: fail the k-th invocation (1-based), 0 = never.
	NewErrAt  int
	CopyErrAt int
	MoveErrAt int

	// MoveOnly omits the Copy capability.
	MoveOnly bool
	// FallibleMove provides an explicit Move hook, so migration prefers
	// copying whenever Copy is available.
	FallibleMove bool

	newCalls  int
	copyCalls int
	moveCalls int
}

// Live returns the number of currently live elements (created minus
// destroyed). A balanced run ends at 0 after everything is closed.
func (p *Probe) Live() int {
	return p.Constructs + p.Copies - p.Destroys
}

// Ctor returns a counted constructor yielding Item{V: v}, for EmplaceBack
// and Emplace. It shares the New failure schedule.
func (p *Probe) Ctor(v int) func() (Item, error) {
	return func() (Item, error) {
		p.newCalls++
		if p.NewErrAt > 0 && p.newCalls == p.NewErrAt {
			return Item{}, ErrInjected
		}
		p.Constructs++
		return Item{V: v}, nil
	}
}

// Ops returns the instrumented capability set.
func (p *Probe) Ops() seqgo.Ops[Item] {
	ops := seqgo.Ops[Item]{
		New: p.Ctor(0),
		Destroy: func(*Item) {
			p.Destroys++
		},
	}

	if !p.MoveOnly {
		ops.Copy = func(src *Item) (Item, error) {
			p.copyCalls++
			if p.CopyErrAt > 0 && p.copyCalls == p.CopyErrAt {
				return Item{}, ErrInjected
			}
			p.Copies++
			return Item{V: src.V}, nil
		}
	}

	if p.FallibleMove {
		ops.Move = func(src *Item) (Item, error) {
			p.moveCalls++
			if p.MoveErrAt > 0 && p.moveCalls == p.MoveErrAt {
				return Item{}, ErrInjected
			}
			p.Moves++
			v := *src
			*src = Item{}
			return v, nil
		}
	}

	return ops
}

// Values extracts the V fields of a sequence's live elements.
func Values(s *seqgo.Sequence[Item]) []int {
	out := make([]int, 0, s.Len())
	for _, it := range s.All() {
		out = append(out, it.V)
	}
	return out
}
