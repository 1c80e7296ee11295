package queue

import "fmt"

// Linear is an array queue whose rear never wraps. Slots in front of the
// front pointer are never reused: once rear reaches the last slot the queue
// refuses every enqueue, even when it is logically empty, until Reset.
type Linear[T any] struct {
	slots *Slots[T]
	front int
	rear  int
}

// NewLinear creates an empty queue. It panics if capacity <= 0.
func NewLinear[T any](capacity int) *Linear[T] {
	return &Linear[T]{
		slots: NewSlots[T](capacity),
		front: -1,
		rear:  -1,
	}
}

func (l *Linear[T]) Cap() int   { return l.slots.Cap() }
func (l *Linear[T]) Front() int { return l.front }
func (l *Linear[T]) Rear() int  { return l.rear }

// IsEmpty reports whether no element is live. After the last dequeue front
// sits one past rear instead of returning to -1.
func (l *Linear[T]) IsEmpty() bool {
	return l.front == -1 || l.front > l.rear
}

// IsFull reports whether every slot holds a live element.
func (l *Linear[T]) IsFull() bool {
	return l.Size() == l.Cap()
}

// IsExhausted reports whether rear has reached the last slot, which blocks
// enqueue regardless of how many elements were dequeued since.
func (l *Linear[T]) IsExhausted() bool {
	return l.rear == l.Cap()-1
}

func (l *Linear[T]) Size() int {
	if l.IsEmpty() {
		return 0
	}
	return l.rear - l.front + 1
}

func (l *Linear[T]) State() State {
	switch {
	case l.IsFull():
		return StateFull
	case l.IsExhausted():
		return StateExhausted
	case l.IsEmpty():
		return StateEmpty
	default:
		return StatePartial
	}
}

func (l *Linear[T]) Enqueue(x T) (Transition, error) {
	if l.IsExhausted() {
		if l.IsFull() {
			return Transition{}, overflow(OpEnqueue,
				"queue is full: rear (%d) is at the last index %d", l.rear, l.Cap()-1)
		}
		return Transition{}, overflow(OpEnqueue,
			"rear (%d) is at the last index %d: the %d slot(s) before front (%d) cannot be reused, reset the queue to enqueue again",
			l.rear, l.Cap()-1, l.front, l.front)
	}

	t := Transition{Op: OpEnqueue, OldFront: l.front, OldRear: l.rear}

	if l.front == -1 {
		l.front, l.rear = 0, 0
		t.First = true
		t.Message = "enqueued at index 0: the queue was empty, so front and rear both move to 0"
	} else {
		l.rear++
		t.Message = fmt.Sprintf("enqueued at index %d: rear moved from %d to %d", l.rear, t.OldRear, l.rear)
	}
	l.slots.Put(l.rear, x)

	t.Index = l.rear
	t.NewFront, t.NewRear = l.front, l.rear
	t.State = l.State()
	switch t.State {
	case StateFull:
		t.Message += ", the queue is now full"
	case StateExhausted:
		t.Message += ", rear reached the last index so no more elements can be added"
	}
	return t, nil
}

// Dequeue clears the slot at front and advances front. Pointers are not
// reset when the queue becomes empty.
func (l *Linear[T]) Dequeue() (T, Transition, error) {
	var zero T
	if l.IsEmpty() {
		return zero, Transition{}, underflow(OpDequeue, "%s, enqueue an element first", l.emptiness())
	}

	t := Transition{Op: OpDequeue, Index: l.front, OldFront: l.front, OldRear: l.rear}
	x, _ := l.slots.Take(l.front)
	l.front++

	t.NewFront, t.NewRear = l.front, l.rear
	t.Emptied = l.IsEmpty()
	t.State = l.State()
	t.Message = fmt.Sprintf("dequeued from index %d: front moved from %d to %d", t.Index, t.OldFront, l.front)
	if t.Emptied {
		t.Message += fmt.Sprintf(", the queue is now empty (front %d > rear %d)", l.front, l.rear)
	}
	return x, t, nil
}

func (l *Linear[T]) Peek() (T, Transition, error) {
	var zero T
	if l.IsEmpty() {
		return zero, Transition{}, underflow(OpPeek, "%s, nothing to peek at", l.emptiness())
	}
	x, _ := l.slots.At(l.front)
	return x, Transition{
		Op:       OpPeek,
		Index:    l.front,
		OldFront: l.front,
		NewFront: l.front,
		OldRear:  l.rear,
		NewRear:  l.rear,
		State:    l.State(),
		Message:  fmt.Sprintf("front element is at index %d", l.front),
	}, nil
}

// Reset is the only way to reclaim slots left behind by dequeue.
func (l *Linear[T]) Reset() Transition {
	t := Transition{Op: OpReset, Index: -1, OldFront: l.front, OldRear: l.rear}
	l.slots.Clear()
	l.front, l.rear = -1, -1
	t.NewFront, t.NewRear = -1, -1
	t.State = StateEmpty
	t.Message = fmt.Sprintf("queue reset: front and rear set to -1 and all %d slots are usable again", l.Cap())
	return t
}

func (l *Linear[T]) Snapshot() Snapshot[T] {
	return Snapshot[T]{
		Capacity: l.Cap(),
		Front:    l.front,
		Rear:     l.rear,
		Size:     l.Size(),
		State:    l.State(),
		Slots:    l.slots.Cells(),
	}
}

func (l *Linear[T]) emptiness() string {
	if l.front == -1 {
		return "queue is empty (front = rear = -1)"
	}
	return fmt.Sprintf("queue is empty (front %d > rear %d)", l.front, l.rear)
}
