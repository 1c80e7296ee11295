package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/DeterminateSystems/queuesimd/lesson"
	"github.com/DeterminateSystems/queuesimd/progress"
	"github.com/DeterminateSystems/queuesimd/queue"
)

var (
	ErrNoSession       = errors.New("no such session")
	ErrTooManySessions = errors.New("too many sessions")
)

// Event is one entry of a session's history, also streamed to SSE clients.
type Event struct {
	Seq       uint64         `json:"seq"`
	Session   string         `json:"session"`
	Event     string         `json:"event"`
	From      queue.State    `json:"from,omitempty"`
	State     queue.State    `json:"state"`
	Message   string         `json:"message,omitempty"`
	Result    *lesson.Result `json:"result,omitempty"`
	Kind      string         `json:"kind,omitempty"`
	XP        int            `json:"xp,omitempty"`
	Timestamp string         `json:"timestamp"`
}

var bogusTimestamp *string

func makeTimeBogus() {
	bogus := "bogustime"
	bogusTimestamp = &bogus
}

func timestamp() string {
	if bogusTimestamp != nil {
		return *bogusTimestamp
	}
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Session is one learner's visit to one lesson.
type Session struct {
	ID     string
	Lesson lesson.Definition

	mu        sync.Mutex
	sim       lesson.Simulator
	tracker   *progress.Tracker
	fsm       *fsm.FSM
	events    *History[Event]
	seq       uint64
	completed bool

	broker *Broker
	log    logr.Logger
}

// Snapshot is what clients get back from every session request.
type Snapshot struct {
	ID       string          `json:"id"`
	Lesson   string          `json:"lesson"`
	Title    string          `json:"title"`
	Machine  string          `json:"machine"`
	View     lesson.View     `json:"view"`
	Tasks    []progress.Task `json:"tasks"`
	Complete bool            `json:"complete"`
	XP       int             `json:"xp"`
	Events   []Event         `json:"events"`
}

func stateEvents() fsm.Events {
	empty := string(queue.StateEmpty)
	partial := string(queue.StatePartial)
	full := string(queue.StateFull)
	exhausted := string(queue.StateExhausted)

	return fsm.Events{
		{Name: empty, Src: []string{partial, full, exhausted}, Dst: empty},
		{Name: partial, Src: []string{empty, full}, Dst: partial},
		{Name: full, Src: []string{empty, partial}, Dst: full},

		// Only a linear queue gets here, and only Reset leaves.
		{Name: exhausted, Src: []string{empty, partial, full}, Dst: exhausted},
	}
}

func NewSession(def lesson.Definition, historySize int, broker *Broker, log logr.Logger) (*Session, error) {
	sim, err := lesson.NewSimulator(def)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:      uuid.NewString(),
		Lesson:  def,
		sim:     sim,
		tracker: def.NewTracker(),
		events:  NewHistory[Event](historySize),
		broker:  broker,
	}
	s.log = log.WithValues("session", s.ID, "lesson", def.ID)

	s.fsm = fsm.NewFSM(
		string(queue.StateEmpty),
		stateEvents(),
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				s.record(Event{
					Event: "state",
					From:  queue.State(e.Src),
					State: queue.State(e.Dst),
				})
			},
		},
	)

	s.mu.Lock()
	s.record(Event{Event: "init", State: queue.StateEmpty, Message: def.Title})
	s.mu.Unlock()

	return s, nil
}

// record stamps ev, keeps it and publishes it. Callers hold s.mu.
func (s *Session) record(ev Event) {
	s.seq++
	ev.Seq = s.seq
	ev.Session = s.ID
	ev.Timestamp = timestamp()
	if ev.State == "" {
		ev.State = s.sim.State()
	}

	s.events.Push(ev)
	s.broker.Publish(ev)
}

// Apply runs one operation. Refused operations are recorded and returned as
// a *queue.Error; they never count towards the lesson's tasks.
func (s *Session) Apply(ctx context.Context, cmd lesson.Command) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := lesson.Apply(s.sim, cmd)
	if err != nil {
		var qerr *queue.Error
		if !errors.As(err, &qerr) {
			return s.snapshot(), err
		}
		s.log.V(1).Info("operation refused", "op", cmd.Op, "kind", qerr.Kind.String())
		s.record(Event{
			Event:   "rejected",
			Kind:    qerr.Kind.String(),
			Message: qerr.Message,
			Result:  &res,
		})
		return s.snapshot(), err
	}

	s.record(Event{
		Event:   string(cmd.Op),
		Message: res.Transition.Message,
		Result:  &res,
	})

	if cmd.Op == queue.OpReset {
		s.tracker.Reset()
	}
	s.tracker.RecordSuccess(cmd.Op)

	if err := s.advance(ctx, res.Transition.State); err != nil {
		s.log.Error(err, "state machine transition", "to", res.Transition.State)
	}

	if !s.completed && s.tracker.IsComplete() {
		s.completed = true
		s.log.Info("lesson complete", "xp", s.Lesson.XP)
		s.record(Event{Event: "lesson_complete", XP: s.Lesson.XP, Message: s.Lesson.Title})
	}

	return s.snapshot(), nil
}

// advance moves the state machine to match the engine.
func (s *Session) advance(ctx context.Context, to queue.State) error {
	state := string(to)
	if s.fsm.Is(state) {
		return nil
	}

	if s.fsm.Cannot(state) {
		s.log.Info("unexpected state change, jumping", "from", s.fsm.Current(), "to", state)
		s.record(Event{Event: "jump_to", From: queue.State(s.fsm.Current()), State: to})
		s.fsm.SetState(state)
		return nil
	}

	return s.fsm.Event(ctx, state)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		ID:       s.ID,
		Lesson:   s.Lesson.ID,
		Title:    s.Lesson.Title,
		Machine:  s.fsm.Current(),
		View:     s.sim.View(),
		Tasks:    s.tracker.Tasks(),
		Complete: s.completed,
		Events:   s.events.Slice(),
	}
	if s.completed {
		snap.XP = s.Lesson.XP
	}
	return snap
}

// EventsAfter returns the retained events newer than seq.
func (s *Session) EventsAfter(seq uint64) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events.After(func(ev Event) bool { return ev.Seq <= seq })
}

// Diagram renders the session's state machine, current state highlighted.
func (s *Session) Diagram(format string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if format == "" {
		format = string(fsm.GRAPHVIZ)
	}
	return fsm.VisualizeWithType(s.fsm, fsm.VisualizeType(format))
}

// Sessions is the registry of live sessions.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	history int
	limit   int
	broker  *Broker
	log     logr.Logger
}

// NewSessions returns an empty registry holding at most limit sessions, or
// any number when limit is 0.
func NewSessions(history, limit int, broker *Broker, log logr.Logger) *Sessions {
	return &Sessions{
		sessions: make(map[string]*Session),
		history:  history,
		limit:    limit,
		broker:   broker,
		log:      log,
	}
}

func (ss *Sessions) Create(def lesson.Definition) (*Session, error) {
	if ss.full() {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManySessions, ss.limit)
	}

	s, err := NewSession(def, ss.history, ss.broker, ss.log)
	if err != nil {
		return nil, fmt.Errorf("create session for %s: %w", def.ID, err)
	}

	ss.mu.Lock()
	// Concurrent creates can race past full(); recheck before inserting.
	if ss.limit > 0 && len(ss.sessions) >= ss.limit {
		ss.mu.Unlock()
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManySessions, ss.limit)
	}
	ss.sessions[s.ID] = s
	ss.mu.Unlock()

	s.log.V(1).Info("session created")
	return s, nil
}

func (ss *Sessions) full() bool {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.limit > 0 && len(ss.sessions) >= ss.limit
}

func (ss *Sessions) Get(id string) (*Session, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	s, ok := ss.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSession, id)
	}
	return s, nil
}

func (ss *Sessions) Delete(id string) error {
	ss.mu.Lock()
	s, ok := ss.sessions[id]
	delete(ss.sessions, id)
	ss.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSession, id)
	}

	s.mu.Lock()
	s.record(Event{Event: "closed"})
	s.mu.Unlock()
	s.log.V(1).Info("session closed")
	return nil
}

// Snapshots lists every live session, ordered by id.
func (ss *Sessions) Snapshots() []Snapshot {
	ss.mu.RLock()
	all := make([]*Session, 0, len(ss.sessions))
	for _, s := range ss.sessions {
		all = append(all, s)
	}
	ss.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	out := make([]Snapshot, len(all))
	for i, s := range all {
		out[i] = s.Snapshot()
	}
	return out
}
