package queue_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeterminateSystems/queuesimd/queue"
)

func TestNewPriorityPanicsOnNegativeCapacity(t *testing.T) {
	assert.Panics(t, func() { queue.NewPriority[int](-1) })
	assert.NotPanics(t, func() { queue.NewPriority[int](0) })
}

func TestPriority_TieStability(t *testing.T) {
	q := queue.NewPriority[string](0)

	for i, p := range []int{1, 1, 3, 1} {
		_, err := q.Enqueue(string(rune('a'+i)), p)
		require.NoError(t, err)
	}

	assert.Equal(t, []queue.PriorityItem[string]{
		{Value: "c", Priority: 3},
		{Value: "a", Priority: 1},
		{Value: "b", Priority: 1},
		{Value: "d", Priority: 1},
	}, q.Items())

	for _, want := range []string{"c", "a", "b", "d"} {
		it, _, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, want, it.Value)
	}
	_, _, err := q.Dequeue()
	assert.ErrorIs(t, err, queue.ErrUnderflow)
}

func TestPriority_InsertionPositions(t *testing.T) {
	q := queue.NewPriority[string](0)

	tr, err := q.Enqueue("first", 5)
	require.NoError(t, err)
	assert.True(t, tr.First)
	assert.True(t, tr.Appended)
	assert.False(t, tr.JumpedToFront())
	assert.Equal(t, "enqueued with priority 5 at position 0: the queue was empty", tr.Message)

	tr, err = q.Enqueue("low", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Index)
	assert.True(t, tr.Appended)
	assert.Equal(t, "enqueued with priority 1 at the tail (position 1): no queued item has a lower priority", tr.Message)

	tr, err = q.Enqueue("mid", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Index)
	assert.False(t, tr.Appended)
	assert.Equal(t, "enqueued with priority 3 at position 1, ahead of the first item with priority 1", tr.Message)

	tr, err = q.Enqueue("urgent", 9)
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Index)
	assert.True(t, tr.JumpedToFront())
	assert.Equal(t, "enqueued with priority 9 at the front: it outranks every queued item", tr.Message)

	// Equal to the front's priority: must queue behind it, not jump.
	tr, err = q.Enqueue("urgent-too", 9)
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Index)
	assert.False(t, tr.JumpedToFront())

	var got []string
	for _, it := range q.Items() {
		got = append(got, it.Value)
	}
	assert.Equal(t, []string{"urgent", "urgent-too", "first", "mid", "low"}, got)
}

func TestPriority_Capacity(t *testing.T) {
	q := queue.NewPriority[int](2)
	_, err := q.Enqueue(1, 1)
	require.NoError(t, err)
	tr, err := q.Enqueue(2, 2)
	require.NoError(t, err)
	assert.Equal(t, queue.StateFull, tr.State)
	assert.True(t, q.IsFull())

	before := q.Items()
	_, err = q.Enqueue(3, 10)
	require.ErrorIs(t, err, queue.ErrOverflow)
	assert.Equal(t, "enqueue: overflow: queue is full: it already holds 2 item(s), dequeue to make room", err.Error())
	assert.Equal(t, before, q.Items())

	it, tr, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, queue.PriorityItem[int]{Value: 2, Priority: 2}, it)
	assert.Equal(t, queue.StatePartial, tr.State)
}

func TestPriority_PeekAndSnapshot(t *testing.T) {
	q := queue.NewPriority[string](3)
	_, _, err := q.Peek()
	require.ErrorIs(t, err, queue.ErrUnderflow)

	_, _ = q.Enqueue("x", 1)
	_, _ = q.Enqueue("y", 2)

	it, _, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, "y", it.Value)
	assert.Equal(t, 2, q.Size())

	snap := q.Snapshot()
	assert.Equal(t, 3, snap.Capacity)
	assert.Len(t, snap.Slots, 3)
	assert.Equal(t, 0, snap.Front)
	assert.Equal(t, 1, snap.Rear)
	assert.True(t, snap.Slots[1].Occupied)
	assert.False(t, snap.Slots[2].Occupied)
}

func TestPriority_Reset(t *testing.T) {
	q := queue.NewPriority[int](5)
	fresh := q.Snapshot()
	for i := 0; i < 4; i++ {
		_, _ = q.Enqueue(i, i%2)
	}
	tr := q.Reset()
	assert.Equal(t, queue.StateEmpty, tr.State)
	assert.Equal(t, fresh, q.Snapshot())
	assert.True(t, q.IsEmpty())
}
