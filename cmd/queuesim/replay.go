package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/DeterminateSystems/queuesimd/lesson"
	"github.com/DeterminateSystems/queuesimd/progress"
	"github.com/DeterminateSystems/queuesimd/queue"
)

// replayer runs scripts against lessons and accumulates the learner's
// record across them.
type replayer struct {
	out     io.Writer
	bar     io.Writer
	showBar bool

	table  progress.XPTable
	record *progress.Record
}

type replayResult struct {
	Applied  int
	Refused  int
	Complete bool
}

func (r *replayer) replay(def lesson.Definition, cmds []lesson.Command) (replayResult, error) {
	var res replayResult

	sim, err := lesson.NewSimulator(def)
	if err != nil {
		return res, err
	}
	tracker := def.NewTracker()

	bar := progressbar.NewOptions(max(tracker.Total(), 1),
		progressbar.OptionSetWriter(r.bar),
		progressbar.OptionSetDescription(def.Title),
		progressbar.OptionSetVisibility(r.showBar && tracker.Total() > 0),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
	)

	fmt.Fprintf(r.out, "== %s (%s, capacity %d)\n", def.Title, def.Kind, def.Capacity)

	for _, c := range cmds {
		step, err := lesson.Apply(sim, c)
		if err != nil {
			var qerr *queue.Error
			if !errors.As(err, &qerr) {
				return res, fmt.Errorf("line %d: %w", c.Line, err)
			}
			res.Refused++
			fmt.Fprintf(r.out, "%-14s refused (%s): %s\n", c, qerr.Kind, qerr.Message)
			continue
		}

		res.Applied++
		if c.Op == queue.OpReset {
			tracker.Reset()
		}
		tracker.RecordSuccess(c.Op)
		_ = bar.Set(tracker.Done())

		line := step.Transition.Message
		if step.Item != nil {
			line = fmt.Sprintf("%s -> %q", line, step.Item.Value)
		}
		fmt.Fprintf(r.out, "%-14s %s [%s]\n", c, line, step.Transition.State)

		if !res.Complete && tracker.IsComplete() {
			res.Complete = true
			r.record.SetCompleted(r.table, def.ID, true)
			fmt.Fprintf(r.out, "lesson complete: +%d XP\n", def.XP)
		}
	}
	_ = bar.Exit()

	if !res.Complete {
		for _, task := range tracker.Tasks() {
			if task.Count < task.Target {
				fmt.Fprintf(r.out, "unfinished: %s %d/%d\n", task.Op, task.Count, task.Target)
			}
		}
	}
	return res, nil
}
