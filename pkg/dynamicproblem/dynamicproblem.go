// Package dynamicproblem defines problems whose parameters can be rewritten
// by external data while an optimization is running. A dynamic problem latches
// an edge-triggered "modified" flag on every applied update; the running
// algorithm consumes the flag once per cycle to decide whether a restart is
// due. Repeated updates between consults collapse into a single pending
// signal, with the problem reflecting the latest applied payload.
package dynamicproblem

import (
	"fmt"
	"sync/atomic"

	"github.com/evostream/evostream/pkg/framework"
)

// Problem is what the dynamic control loop sees: a regular problem plus the
// change-consumption surface.
type Problem interface {
	framework.Problem

	// HasChanged reports whether an update was applied since the last
	// ConsumeChange, without clearing the flag.
	HasChanged() bool

	// ConsumeChange atomically reads and clears the modified flag,
	// returning its prior value. This is the only call the control loop
	// uses to decide whether to restart, so a change episode triggers
	// exactly one restart.
	ConsumeChange() bool
}

// Updatable is a dynamic problem together with its typed update channel.
// Apply validates the payload against the problem's shape and either mutates
// the problem and latches the modified flag, or returns a
// MalformedUpdateError leaving the problem untouched.
type Updatable[D any] interface {
	Problem
	Apply(payload D) error
}

// MalformedUpdateError reports a payload that does not match the problem's
// expected shape. The payload is discarded and the problem keeps its prior
// state.
type MalformedUpdateError struct {
	Problem string
	Reason  string
}

func (e *MalformedUpdateError) Error() string {
	return fmt.Sprintf("malformed update for problem %q: %s", e.Problem, e.Reason)
}

// ChangeFlag is the edge-triggered modified marker shared by dynamic problem
// implementations. The atomic exchange in ConsumeChange guarantees that a
// concurrent Set cannot be lost between the loop's read and clear.
type ChangeFlag struct {
	changed atomic.Bool
}

func (f *ChangeFlag) Set() {
	f.changed.Store(true)
}

func (f *ChangeFlag) HasChanged() bool {
	return f.changed.Load()
}

func (f *ChangeFlag) ConsumeChange() bool {
	return f.changed.Swap(false)
}
