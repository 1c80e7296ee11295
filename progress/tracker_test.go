package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DeterminateSystems/queuesimd/queue"
)

func TestNewTrackerPanicsOnNegativeTarget(t *testing.T) {
	assert.Panics(t, func() {
		NewTracker(map[Operation]int{queue.OpEnqueue: -1})
	})
}

func TestTrackerCompletionGating(t *testing.T) {
	tr := NewTracker(map[Operation]int{
		queue.OpEnqueue: 3,
		queue.OpDequeue: 3,
		queue.OpPeek:    1,
	})
	assert.Equal(t, 7, tr.Total())

	for i := 0; i < 5; i++ {
		tr.RecordSuccess(queue.OpEnqueue)
	}
	assert.Equal(t, 3, tr.Count(queue.OpEnqueue), "counts saturate at the target")
	assert.False(t, tr.IsComplete())

	tr.RecordSuccess(queue.OpPeek)
	assert.False(t, tr.IsComplete())

	for i := 0; i < 2; i++ {
		tr.RecordSuccess(queue.OpDequeue)
		assert.False(t, tr.IsComplete())
	}
	assert.Equal(t, 1, tr.Remaining(queue.OpDequeue))

	tr.RecordSuccess(queue.OpDequeue)
	assert.True(t, tr.IsComplete())
	assert.Equal(t, 7, tr.Done())

	// Stays complete whatever happens next.
	tr.RecordSuccess(queue.OpDequeue)
	tr.RecordSuccess(queue.OpReset)
	tr.RecordSuccess(queue.OpEnqueue)
	assert.True(t, tr.IsComplete())
	assert.Equal(t, 7, tr.Done())
}

func TestTrackerIgnoresUntrackedOperations(t *testing.T) {
	tr := NewTracker(map[Operation]int{queue.OpEnqueue: 1})
	tr.RecordSuccess(queue.OpPeek)
	assert.Zero(t, tr.Count(queue.OpPeek))
	assert.False(t, tr.IsComplete())
}

func TestTrackerWithoutTargetsIsComplete(t *testing.T) {
	assert.True(t, NewTracker(nil).IsComplete())
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker(map[Operation]int{queue.OpEnqueue: 2, queue.OpDequeue: 1})
	tr.RecordSuccess(queue.OpEnqueue)
	tr.RecordSuccess(queue.OpEnqueue)
	tr.RecordSuccess(queue.OpDequeue)
	assert.True(t, tr.IsComplete())

	tr.Reset()
	assert.Zero(t, tr.Count(queue.OpEnqueue))
	assert.Zero(t, tr.Count(queue.OpDequeue))
	assert.Zero(t, tr.Done())
	assert.False(t, tr.IsComplete())
	assert.Equal(t, 2, tr.Target(queue.OpEnqueue))

	tr.Reset()
	assert.Zero(t, tr.Done())
}

func TestTrackerTargetsAreCopied(t *testing.T) {
	targets := map[Operation]int{queue.OpEnqueue: 1}
	tr := NewTracker(targets)
	targets[queue.OpEnqueue] = 10
	assert.Equal(t, 1, tr.Target(queue.OpEnqueue))
}

func TestTrackerTasks(t *testing.T) {
	tr := NewTracker(map[Operation]int{queue.OpPeek: 1, queue.OpDequeue: 2, queue.OpEnqueue: 2})
	tr.RecordSuccess(queue.OpEnqueue)
	assert.Equal(t, []Task{
		{Op: queue.OpDequeue, Count: 0, Target: 2},
		{Op: queue.OpEnqueue, Count: 1, Target: 2},
		{Op: queue.OpPeek, Count: 0, Target: 1},
	}, tr.Tasks())
}

func TestTrackerFraction(t *testing.T) {
	assert.Equal(t, 1.0, NewTracker(nil).Fraction())

	tr := NewTracker(map[Operation]int{queue.OpEnqueue: 3, queue.OpDequeue: 1})
	assert.Zero(t, tr.Fraction())

	tr.RecordSuccess(queue.OpEnqueue)
	tr.RecordSuccess(queue.OpDequeue)
	tr.RecordSuccess(queue.OpDequeue)
	assert.InDelta(t, 0.5, tr.Fraction(), 1e-9)

	tr.RecordSuccess(queue.OpEnqueue)
	tr.RecordSuccess(queue.OpEnqueue)
	tr.RecordSuccess(queue.OpEnqueue)
	assert.Equal(t, 1.0, tr.Fraction())
	assert.True(t, tr.IsComplete())
}
