package queue

import "fmt"

// Circular is a ring buffer tracked only by front and rear. The pair
// (-1, -1) means empty and front == (rear+1) mod cap means full, so the two
// conditions can never be confused.
type Circular[T any] struct {
	slots *Slots[T]
	front int
	rear  int
}

// NewCircular creates an empty ring. It panics if capacity <= 0.
func NewCircular[T any](capacity int) *Circular[T] {
	return &Circular[T]{
		slots: NewSlots[T](capacity),
		front: -1,
		rear:  -1,
	}
}

func (c *Circular[T]) Cap() int   { return c.slots.Cap() }
func (c *Circular[T]) Front() int { return c.front }
func (c *Circular[T]) Rear() int  { return c.rear }

func (c *Circular[T]) IsEmpty() bool {
	return c.front == -1 && c.rear == -1
}

func (c *Circular[T]) IsFull() bool {
	return !c.IsEmpty() && c.front == (c.rear+1)%c.Cap()
}

// Size is the forward distance from front to rear, inclusive.
func (c *Circular[T]) Size() int {
	if c.IsEmpty() {
		return 0
	}
	return (c.rear-c.front+c.Cap())%c.Cap() + 1
}

func (c *Circular[T]) State() State {
	switch {
	case c.IsEmpty():
		return StateEmpty
	case c.IsFull():
		return StateFull
	default:
		return StatePartial
	}
}

// Enqueue writes x after rear, wrapping to slot 0 past the last slot.
func (c *Circular[T]) Enqueue(x T) (Transition, error) {
	if c.IsFull() {
		return Transition{}, overflow(OpEnqueue,
			"queue is full: front (%d) == (rear (%d) + 1) %% %d, dequeue to free a slot",
			c.front, c.rear, c.Cap())
	}

	t := Transition{Op: OpEnqueue, OldFront: c.front, OldRear: c.rear}

	if c.IsEmpty() {
		c.front, c.rear = 0, 0
		c.slots.Put(0, x)

		t.Index, t.First = 0, true
		t.Message = "enqueued at index 0: the queue was empty, so front and rear both move to 0"
	} else {
		next := (c.rear + 1) % c.Cap()
		c.slots.Put(next, x)

		t.Index = next
		t.Wrapped = next < c.rear
		if t.Wrapped {
			t.Message = fmt.Sprintf("enqueued at index %d: rear wrapped around from %d to %d since (%d + 1) %% %d = %d",
				next, c.rear, next, c.rear, c.Cap(), next)
		} else {
			t.Message = fmt.Sprintf("enqueued at index %d: rear moved from %d to %d", next, c.rear, next)
		}
		c.rear = next
	}

	t.NewFront, t.NewRear = c.front, c.rear
	t.State = c.State()
	if t.State == StateFull {
		t.Message += ", the queue is now full"
	}
	return t, nil
}

// Dequeue removes the element at front. Removing the last element puts both
// pointers back to -1 rather than leaving them where they were.
func (c *Circular[T]) Dequeue() (T, Transition, error) {
	var zero T
	if c.IsEmpty() {
		return zero, Transition{}, underflow(OpDequeue,
			"queue is empty (front = rear = -1), enqueue an element first")
	}

	t := Transition{Op: OpDequeue, Index: c.front, OldFront: c.front, OldRear: c.rear}
	x, _ := c.slots.Take(c.front)

	if c.front == c.rear {
		c.front, c.rear = -1, -1
		t.Emptied = true
		t.Message = fmt.Sprintf("dequeued from index %d: it was the last element, so front and rear reset to -1", t.Index)
	} else {
		next := (c.front + 1) % c.Cap()
		t.Wrapped = next < c.front
		if t.Wrapped {
			t.Message = fmt.Sprintf("dequeued from index %d: front wrapped around from %d to %d", t.Index, c.front, next)
		} else {
			t.Message = fmt.Sprintf("dequeued from index %d: front moved from %d to %d", t.Index, c.front, next)
		}
		c.front = next
	}

	t.NewFront, t.NewRear = c.front, c.rear
	t.State = c.State()
	return x, t, nil
}

// Peek returns the element at front without removing it.
func (c *Circular[T]) Peek() (T, Transition, error) {
	var zero T
	if c.IsEmpty() {
		return zero, Transition{}, underflow(OpPeek,
			"queue is empty (front = rear = -1), nothing to peek at")
	}
	x, _ := c.slots.At(c.front)
	return x, Transition{
		Op:       OpPeek,
		Index:    c.front,
		OldFront: c.front,
		NewFront: c.front,
		OldRear:  c.rear,
		NewRear:  c.rear,
		State:    c.State(),
		Message:  fmt.Sprintf("front element is at index %d", c.front),
	}, nil
}

// Reset empties the ring. Capacity is unchanged.
func (c *Circular[T]) Reset() Transition {
	t := Transition{Op: OpReset, Index: -1, OldFront: c.front, OldRear: c.rear}
	c.slots.Clear()
	c.front, c.rear = -1, -1
	t.NewFront, t.NewRear = -1, -1
	t.State = StateEmpty
	t.Message = fmt.Sprintf("queue reset: front and rear set to -1 and all %d slots cleared", c.Cap())
	return t
}

func (c *Circular[T]) Snapshot() Snapshot[T] {
	return Snapshot[T]{
		Capacity: c.Cap(),
		Front:    c.front,
		Rear:     c.rear,
		Size:     c.Size(),
		State:    c.State(),
		Slots:    c.slots.Cells(),
	}
}
