package queue

import (
	"fmt"
	"slices"
)

// PriorityItem is one entry of a Priority queue. Higher Priority is served
// first.
type PriorityItem[T any] struct {
	Value    T   `json:"value"`
	Priority int `json:"priority"`
}

// Priority keeps items sorted by descending priority using a linear
// insertion scan. Items of equal priority leave in the order they arrived.
type Priority[T any] struct {
	items    []PriorityItem[T]
	capacity int
}

// NewPriority creates an empty priority queue holding at most capacity
// items. A capacity of 0 means unbounded; a negative capacity panics.
func NewPriority[T any](capacity int) *Priority[T] {
	if capacity < 0 {
		panic("capacity must be >= 0")
	}
	return &Priority[T]{capacity: capacity}
}

// Cap returns the configured limit, 0 when unbounded.
func (p *Priority[T]) Cap() int { return p.capacity }

func (p *Priority[T]) Size() int     { return len(p.items) }
func (p *Priority[T]) IsEmpty() bool { return len(p.items) == 0 }

func (p *Priority[T]) IsFull() bool {
	return p.capacity > 0 && len(p.items) >= p.capacity
}

func (p *Priority[T]) State() State {
	switch {
	case p.IsEmpty():
		return StateEmpty
	case p.IsFull():
		return StateFull
	default:
		return StatePartial
	}
}

// Items returns a copy of the queue in service order.
func (p *Priority[T]) Items() []PriorityItem[T] {
	return slices.Clone(p.items)
}

// Enqueue inserts x before the first item with a strictly lower priority,
// or at the tail when there is none.
func (p *Priority[T]) Enqueue(x T, priority int) (Transition, error) {
	if p.IsFull() {
		return Transition{}, overflow(OpEnqueue,
			"queue is full: it already holds %d item(s), dequeue to make room", p.capacity)
	}

	at := len(p.items)
	for i, it := range p.items {
		if priority > it.Priority {
			at = i
			break
		}
	}

	t := Transition{Op: OpEnqueue, Index: at, OldFront: p.front(), OldRear: p.rear()}
	p.items = slices.Insert(p.items, at, PriorityItem[T]{Value: x, Priority: priority})

	t.First = len(p.items) == 1
	t.Appended = at == len(p.items)-1
	switch {
	case t.First:
		t.Message = fmt.Sprintf("enqueued with priority %d at position 0: the queue was empty", priority)
	case t.Appended:
		t.Message = fmt.Sprintf("enqueued with priority %d at the tail (position %d): no queued item has a lower priority", priority, at)
	case at == 0:
		t.Message = fmt.Sprintf("enqueued with priority %d at the front: it outranks every queued item", priority)
	default:
		t.Message = fmt.Sprintf("enqueued with priority %d at position %d, ahead of the first item with priority %d",
			priority, at, p.items[at+1].Priority)
	}

	t.NewFront, t.NewRear = p.front(), p.rear()
	t.State = p.State()
	if t.State == StateFull {
		t.Message += ", the queue is now full"
	}
	return t, nil
}

// JumpedToFront reports whether an enqueue transition went ahead of items
// that were already queued.
func (t Transition) JumpedToFront() bool {
	return t.Op == OpEnqueue && t.Index == 0 && !t.First && !t.Appended
}

// Dequeue removes the highest priority, earliest queued item.
func (p *Priority[T]) Dequeue() (PriorityItem[T], Transition, error) {
	if p.IsEmpty() {
		return PriorityItem[T]{}, Transition{}, underflow(OpDequeue, "queue is empty, enqueue an item first")
	}

	t := Transition{Op: OpDequeue, Index: 0, OldFront: p.front(), OldRear: p.rear()}
	it := p.items[0]
	p.items = slices.Delete(p.items, 0, 1)

	t.NewFront, t.NewRear = p.front(), p.rear()
	t.Emptied = p.IsEmpty()
	t.State = p.State()
	t.Message = fmt.Sprintf("dequeued the front item with priority %d", it.Priority)
	if t.Emptied {
		t.Message += ", the queue is now empty"
	}
	return it, t, nil
}

func (p *Priority[T]) Peek() (PriorityItem[T], Transition, error) {
	if p.IsEmpty() {
		return PriorityItem[T]{}, Transition{}, underflow(OpPeek, "queue is empty, nothing to peek at")
	}
	it := p.items[0]
	return it, Transition{
		Op:       OpPeek,
		Index:    0,
		OldFront: 0,
		NewFront: 0,
		OldRear:  p.rear(),
		NewRear:  p.rear(),
		State:    p.State(),
		Message:  fmt.Sprintf("front item has priority %d", it.Priority),
	}, nil
}

func (p *Priority[T]) Reset() Transition {
	t := Transition{Op: OpReset, Index: -1, OldFront: p.front(), OldRear: p.rear()}
	p.items = nil
	t.NewFront, t.NewRear = -1, -1
	t.State = StateEmpty
	t.Message = "queue reset: all items removed"
	return t
}

// Snapshot lays the items out as slots. A bounded queue always reports
// Cap() slots, the unoccupied ones trailing.
func (p *Priority[T]) Snapshot() Snapshot[PriorityItem[T]] {
	n := max(p.capacity, len(p.items))
	cells := make([]Slot[PriorityItem[T]], n)
	for i, it := range p.items {
		cells[i] = Slot[PriorityItem[T]]{Value: it, Occupied: true}
	}
	return Snapshot[PriorityItem[T]]{
		Capacity: p.capacity,
		Front:    p.front(),
		Rear:     p.rear(),
		Size:     len(p.items),
		State:    p.State(),
		Slots:    cells,
	}
}

func (p *Priority[T]) front() int {
	if p.IsEmpty() {
		return -1
	}
	return 0
}

func (p *Priority[T]) rear() int {
	return len(p.items) - 1
}
