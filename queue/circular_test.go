package queue_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeterminateSystems/queuesimd/queue"
)

func TestNewCircularPanicsOnBadCapacity(t *testing.T) {
	assert.Panics(t, func() { queue.NewCircular[int](0) })
	assert.Panics(t, func() { queue.NewCircular[int](-3) })
}

func TestCircular_FillUntilFull(t *testing.T) {
	const N = 8
	q := queue.NewCircular[int](N)
	assert.True(t, q.IsEmpty())
	assert.Equal(t, queue.StateEmpty, q.State())

	for i := 0; i < N; i++ {
		tr, err := q.Enqueue(i)
		require.NoError(t, err)
		assert.Equal(t, i, tr.Index)
		assert.Equal(t, i == 0, tr.First)
		assert.False(t, tr.Wrapped)
		assert.Equal(t, i+1, q.Size())
	}
	assert.True(t, q.IsFull())
	assert.Equal(t, queue.StateFull, q.State())
	assert.Equal(t, 0, q.Front())
	assert.Equal(t, N-1, q.Rear())

	before := q.Snapshot()
	_, err := q.Enqueue(99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, queue.ErrOverflow))
	assert.False(t, errors.Is(err, queue.ErrUnderflow))
	assert.Equal(t, before, q.Snapshot(), "overflow must not mutate")
}

func TestCircular_FirstEnqueueMessage(t *testing.T) {
	q := queue.NewCircular[string](4)
	tr, err := q.Enqueue("a")
	require.NoError(t, err)
	assert.Equal(t, queue.Transition{
		Op:       queue.OpEnqueue,
		Index:    0,
		OldFront: -1,
		NewFront: 0,
		OldRear:  -1,
		NewRear:  0,
		First:    true,
		State:    queue.StatePartial,
		Message:  "enqueued at index 0: the queue was empty, so front and rear both move to 0",
	}, tr)
}

func TestCircular_WraparoundTrace(t *testing.T) {
	q := queue.NewCircular[int](8)
	for i := 0; i < 8; i++ {
		_, err := q.Enqueue(i)
		require.NoError(t, err)
	}
	assert.Equal(t, [2]int{0, 7}, [2]int{q.Front(), q.Rear()})

	for i := 0; i < 5; i++ {
		v, tr, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, i, v)
		assert.False(t, tr.Wrapped)
	}
	assert.Equal(t, [2]int{5, 7}, [2]int{q.Front(), q.Rear()})
	assert.Equal(t, 3, q.Size())

	tr, err := q.Enqueue(100)
	require.NoError(t, err)
	assert.True(t, tr.Wrapped)
	assert.Equal(t, 7, tr.OldRear)
	assert.Equal(t, 0, tr.NewRear)
	assert.Equal(t, "enqueued at index 0: rear wrapped around from 7 to 0 since (7 + 1) % 8 = 0", tr.Message)

	for _, v := range []int{101, 102} {
		tr, err = q.Enqueue(v)
		require.NoError(t, err)
		assert.False(t, tr.Wrapped)
	}
	assert.Equal(t, [2]int{5, 2}, [2]int{q.Front(), q.Rear()})
	assert.Equal(t, 6, q.Size())
	assert.False(t, q.IsFull(), "slots 3 and 4 are still free")
	assert.Equal(t, "enqueued at index 2: rear moved from 1 to 2", tr.Message)

	for _, v := range []int{103, 104} {
		tr, err = q.Enqueue(v)
		require.NoError(t, err)
	}
	assert.Equal(t, [2]int{5, 4}, [2]int{q.Front(), q.Rear()})
	assert.True(t, q.IsFull())
	assert.Equal(t, 8, q.Size())
	assert.Equal(t, "enqueued at index 4: rear moved from 3 to 4, the queue is now full", tr.Message)

	// Drain in FIFO order, front wrapping from 7 to 0 along the way.
	want := []int{5, 6, 7, 100, 101, 102, 103, 104}
	for i, w := range want {
		v, tr, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, w, v)
		assert.Equal(t, i == 2, tr.Wrapped, "dequeue %d", i)
	}
	assert.True(t, q.IsEmpty())
}

func TestCircular_LastDequeueResetsPointers(t *testing.T) {
	q := queue.NewCircular[string](3)
	_, _ = q.Enqueue("a")
	_, _ = q.Enqueue("b")
	_, _, _ = q.Dequeue()

	v, tr, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "b", v)
	assert.True(t, tr.Emptied)
	assert.Equal(t, -1, q.Front())
	assert.Equal(t, -1, q.Rear())
	assert.Equal(t, queue.StateEmpty, tr.State)
	assert.Equal(t, "dequeued from index 1: it was the last element, so front and rear reset to -1", tr.Message)

	// The next enqueue starts over at slot 0.
	tr, err = q.Enqueue("c")
	require.NoError(t, err)
	assert.True(t, tr.First)
	assert.Equal(t, 0, tr.Index)
}

func TestCircular_Underflow(t *testing.T) {
	q := queue.NewCircular[int](2)

	_, _, err := q.Dequeue()
	require.Error(t, err)
	assert.True(t, errors.Is(err, queue.ErrUnderflow))

	var qerr *queue.Error
	require.True(t, errors.As(err, &qerr))
	assert.Equal(t, queue.OpDequeue, qerr.Op)
	assert.Equal(t, queue.Underflow, qerr.Kind)
	assert.Equal(t, "dequeue: underflow: queue is empty (front = rear = -1), enqueue an element first", err.Error())

	_, _, err = q.Peek()
	assert.True(t, errors.Is(err, queue.ErrUnderflow))
}

func TestCircular_Peek(t *testing.T) {
	q := queue.NewCircular[string](2)
	_, _ = q.Enqueue("x")
	_, _ = q.Enqueue("y")

	v, tr, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, "x", v)
	assert.Equal(t, queue.OpPeek, tr.Op)
	assert.Equal(t, 2, q.Size())
}

func TestCircular_CapacityOne(t *testing.T) {
	q := queue.NewCircular[int](1)
	tr, err := q.Enqueue(1)
	require.NoError(t, err)
	assert.True(t, q.IsFull())
	assert.Equal(t, queue.StateFull, tr.State)

	_, err = q.Enqueue(2)
	assert.ErrorIs(t, err, queue.ErrOverflow)

	_, tr, err = q.Dequeue()
	require.NoError(t, err)
	assert.True(t, tr.Emptied)
	assert.True(t, q.IsEmpty())
}

func TestCircular_ResetFromAnyState(t *testing.T) {
	fresh := queue.NewCircular[int](5).Snapshot()

	for steps := 0; steps < 12; steps++ {
		q := queue.NewCircular[int](5)
		for i := 0; i < steps; i++ {
			if i%3 == 2 {
				_, _, _ = q.Dequeue()
			} else {
				_, _ = q.Enqueue(i)
			}
		}
		tr := q.Reset()
		assert.Equal(t, queue.OpReset, tr.Op)
		assert.Equal(t, fresh, q.Snapshot(), "after %d steps", steps)

		q.Reset()
		assert.Equal(t, fresh, q.Snapshot(), "second reset after %d steps", steps)
	}
}

// Random walks must keep the sentinel and full conditions consistent with
// the occupied arc.
func TestCircular_RingInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, capacity := range []int{1, 2, 3, 8} {
		q := queue.NewCircular[int](capacity)
		var model []int

		for step := 0; step < 2000; step++ {
			if rng.Intn(2) == 0 {
				_, err := q.Enqueue(step)
				if len(model) == capacity {
					require.ErrorIs(t, err, queue.ErrOverflow)
				} else {
					require.NoError(t, err)
					model = append(model, step)
				}
			} else {
				v, _, err := q.Dequeue()
				if len(model) == 0 {
					require.ErrorIs(t, err, queue.ErrUnderflow)
				} else {
					require.NoError(t, err)
					require.Equal(t, model[0], v)
					model = model[1:]
				}
			}

			front, rear := q.Front(), q.Rear()
			require.Equal(t, front == -1 && rear == -1, q.IsEmpty())
			require.Equal(t, !q.IsEmpty() && front == (rear+1)%capacity, q.IsFull())
			require.Equal(t, len(model), q.Size())

			snap := q.Snapshot()
			occupied := 0
			for i := 0; i < len(model); i++ {
				cell := snap.Slots[(front+i)%capacity]
				require.True(t, cell.Occupied)
				require.Equal(t, model[i], cell.Value)
				occupied++
			}
			for _, cell := range snap.Slots {
				if cell.Occupied {
					occupied--
				}
			}
			require.Zero(t, occupied, "only the front..rear arc may be occupied")
		}
	}
}
