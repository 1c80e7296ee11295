// Package queue implements small, deterministic queue simulators meant to be
// stepped one operation at a time by a visualization.
//
// Three engines share one result contract: Circular (a ring buffer using the
// (-1, -1) empty sentinel), Linear (a queue whose rear never wraps) and
// Priority (an ordered list filled by a linear insertion scan). Every mutating
// call returns a Transition describing what moved, or an *Error when the
// operation is refused. Refused operations never mutate the engine.
//
// Engines are not safe for concurrent use.
package queue

// Op names an engine operation.
type Op string

const (
	OpEnqueue Op = "enqueue"
	OpDequeue Op = "dequeue"
	OpPeek    Op = "peek"
	OpReset   Op = "reset"
)

// State is the coarse shape of a container.
type State string

const (
	StateEmpty   State = "empty"
	StatePartial State = "partial"
	StateFull    State = "full"
	// StateExhausted is only reported by Linear: the rear pointer reached the
	// last slot, so nothing more can be enqueued until Reset.
	StateExhausted State = "exhausted"
)

// States lists every State in the order a container usually visits them.
var States = []State{StateEmpty, StatePartial, StateFull, StateExhausted}

// Transition describes one successful operation.
type Transition struct {
	Op Op `json:"op"`

	// Index is the slot (or list position for Priority) that was written,
	// read or cleared. It is -1 for Reset.
	Index int `json:"index"`

	OldFront int `json:"old_front"`
	NewFront int `json:"new_front"`
	OldRear  int `json:"old_rear"`
	NewRear  int `json:"new_rear"`

	// First is set when an enqueue went into an empty container.
	First bool `json:"first,omitempty"`
	// Wrapped is set when a circular pointer moved past the last slot back
	// to a lower index.
	Wrapped bool `json:"wrapped,omitempty"`
	// Emptied is set when a dequeue removed the last element.
	Emptied bool `json:"emptied,omitempty"`
	// Appended is set when a priority enqueue landed at the tail.
	Appended bool `json:"appended,omitempty"`

	State   State  `json:"state"`
	Message string `json:"message"`
}

// Snapshot is a copy of an engine's visible state.
type Snapshot[T any] struct {
	Capacity int       `json:"capacity"`
	Front    int       `json:"front"`
	Rear     int       `json:"rear"`
	Size     int       `json:"size"`
	State    State     `json:"state"`
	Slots    []Slot[T] `json:"slots"`
}
