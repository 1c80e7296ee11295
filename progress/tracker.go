// Package progress gates lesson completion on operation counts and computes
// the XP a set of completed lessons is worth.
package progress

import (
	"maps"
	"slices"

	"github.com/DeterminateSystems/queuesimd/queue"
)

// Operation is the kind of step a task asks the learner to perform.
type Operation = queue.Op

// Tracker counts successful operations against per-operation targets.
// Counts saturate at their target and operations without a target are not
// counted at all. A Tracker is not safe for concurrent use.
type Tracker struct {
	targets map[Operation]int
	counts  map[Operation]int
}

// NewTracker panics if any target is negative.
func NewTracker(targets map[Operation]int) *Tracker {
	for op, n := range targets {
		if n < 0 {
			panic("negative target for " + string(op))
		}
	}
	return &Tracker{
		targets: maps.Clone(targets),
		counts:  make(map[Operation]int, len(targets)),
	}
}

// RecordSuccess counts one successful op.
func (t *Tracker) RecordSuccess(op Operation) {
	target, ok := t.targets[op]
	if !ok || t.counts[op] >= target {
		return
	}
	t.counts[op]++
}

func (t *Tracker) Count(op Operation) int {
	return t.counts[op]
}

func (t *Tracker) Target(op Operation) int {
	return t.targets[op]
}

func (t *Tracker) Remaining(op Operation) int {
	return t.targets[op] - t.counts[op]
}

// IsComplete reports whether every target has been reached. A tracker with
// no targets is complete from the start.
func (t *Tracker) IsComplete() bool {
	for op, target := range t.targets {
		if t.counts[op] < target {
			return false
		}
	}
	return true
}

// Done and Total sum the counts and targets over every operation.
func (t *Tracker) Done() int {
	n := 0
	for _, c := range t.counts {
		n += c
	}
	return n
}

func (t *Tracker) Total() int {
	n := 0
	for _, c := range t.targets {
		n += c
	}
	return n
}

// Fraction is Done over Total. A tracker with no targets is complete, so it
// reports 1.
func (t *Tracker) Fraction() float64 {
	total := t.Total()
	if total == 0 {
		return 1
	}
	return float64(t.Done()) / float64(total)
}

// Reset zeroes every count; targets are kept.
func (t *Tracker) Reset() {
	clear(t.counts)
}

// Task is one line of a tracker's checklist.
type Task struct {
	Op     Operation `json:"op"`
	Count  int       `json:"count"`
	Target int       `json:"target"`
}

// Tasks lists the checklist sorted by operation name.
func (t *Tracker) Tasks() []Task {
	ops := slices.Sorted(maps.Keys(t.targets))
	out := make([]Task, 0, len(ops))
	for _, op := range ops {
		out = append(out, Task{Op: op, Count: t.counts[op], Target: t.targets[op]})
	}
	return out
}
