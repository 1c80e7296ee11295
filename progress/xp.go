package progress

import (
	"maps"
	"slices"
)

// XPTable maps a lesson id to the XP it is worth.
type XPTable map[string]int

// XP sums the table entries of every completed lesson. Completed lessons
// missing from the table are worth nothing.
func (t XPTable) XP(completed map[string]bool) int {
	xp := 0
	for id, done := range completed {
		if done {
			xp += t[id]
		}
	}
	return xp
}

// Record is a learner's progress: which lessons are done and the XP that
// follows from them. XP is never set directly; it is recomputed from the
// table every time a completion flag changes.
type Record struct {
	XP               int             `json:"xp"`
	CompletedLessons map[string]bool `json:"completedLessons"`
}

func NewRecord() *Record {
	return &Record{CompletedLessons: map[string]bool{}}
}

// SetCompleted changes one lesson's flag and recomputes XP. It reports
// whether the flag actually changed.
func (r *Record) SetCompleted(table XPTable, lesson string, done bool) bool {
	if r.CompletedLessons == nil {
		r.CompletedLessons = map[string]bool{}
	}
	if r.CompletedLessons[lesson] == done {
		return false
	}
	r.CompletedLessons[lesson] = done
	r.XP = table.XP(r.CompletedLessons)
	return true
}

// Completed lists completed lesson ids in sorted order.
func (r *Record) Completed() []string {
	var out []string
	for _, id := range slices.Sorted(maps.Keys(r.CompletedLessons)) {
		if r.CompletedLessons[id] {
			out = append(out, id)
		}
	}
	return out
}
