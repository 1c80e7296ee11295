// Package lesson binds the queue engines to lesson definitions: which engine
// a lesson drives, its capacity, the tasks that complete it and the XP it is
// worth.
package lesson

import (
	"errors"
	"fmt"

	"github.com/DeterminateSystems/queuesimd/progress"
	"github.com/DeterminateSystems/queuesimd/queue"
)

type Kind string

const (
	KindCircular Kind = "circular"
	KindLinear   Kind = "linear"
	KindPriority Kind = "priority"
)

type Definition struct {
	ID       string           `yaml:"id" json:"id"`
	Title    string           `yaml:"title" json:"title"`
	Kind     Kind             `yaml:"kind" json:"kind"`
	Capacity int              `yaml:"capacity" json:"capacity"`
	XP       int              `yaml:"xp" json:"xp"`
	Targets  map[queue.Op]int `yaml:"targets" json:"targets"`
}

func (d Definition) Validate() error {
	if d.ID == "" {
		return errors.New("lesson id is required")
	}
	switch d.Kind {
	case KindCircular, KindLinear:
		if d.Capacity <= 0 {
			return fmt.Errorf("lesson %s: capacity must be > 0, got %d", d.ID, d.Capacity)
		}
	case KindPriority:
		if d.Capacity < 0 {
			return fmt.Errorf("lesson %s: capacity must be >= 0, got %d", d.ID, d.Capacity)
		}
	default:
		return fmt.Errorf("lesson %s: unknown kind %q", d.ID, d.Kind)
	}
	if d.XP < 0 {
		return fmt.Errorf("lesson %s: xp must be >= 0, got %d", d.ID, d.XP)
	}
	for op, n := range d.Targets {
		switch op {
		case queue.OpEnqueue, queue.OpDequeue, queue.OpPeek, queue.OpReset:
		default:
			return fmt.Errorf("lesson %s: unknown target operation %q", d.ID, op)
		}
		if n < 0 {
			return fmt.Errorf("lesson %s: target for %s must be >= 0, got %d", d.ID, op, n)
		}
	}
	return nil
}

// NewTracker returns a tracker for the definition's targets.
func (d Definition) NewTracker() *progress.Tracker {
	return progress.NewTracker(d.Targets)
}

// Catalog is an ordered set of lessons.
type Catalog []Definition

func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c))
	for _, d := range c {
		if err := d.Validate(); err != nil {
			return err
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate lesson id %q", d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}

func (c Catalog) Get(id string) (Definition, bool) {
	for _, d := range c {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// XPTable extracts the per-lesson XP values.
func (c Catalog) XPTable() progress.XPTable {
	t := make(progress.XPTable, len(c))
	for _, d := range c {
		t[d.ID] = d.XP
	}
	return t
}

// Defaults is the built-in catalog.
func Defaults() Catalog {
	return Catalog{
		{
			ID:       "linear-queue",
			Title:    "Queue",
			Kind:     KindLinear,
			Capacity: 4,
			XP:       100,
			Targets:  map[queue.Op]int{queue.OpEnqueue: 4, queue.OpDequeue: 4},
		},
		{
			ID:       "circular-queue",
			Title:    "Circular Queue",
			Kind:     KindCircular,
			Capacity: 8,
			XP:       150,
			Targets:  map[queue.Op]int{queue.OpEnqueue: 3, queue.OpDequeue: 3, queue.OpPeek: 1},
		},
		{
			ID:       "priority-queue",
			Title:    "Priority Queue",
			Kind:     KindPriority,
			Capacity: 5,
			XP:       150,
			Targets:  map[queue.Op]int{queue.OpEnqueue: 3, queue.OpDequeue: 2, queue.OpPeek: 1},
		},
	}
}
