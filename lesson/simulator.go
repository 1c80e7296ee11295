package lesson

import (
	"fmt"

	"github.com/DeterminateSystems/queuesimd/queue"
)

// Item is a queued token as the visualization sees it. Priority is zero for
// the FIFO engines.
type Item struct {
	Value    string `json:"value"`
	Priority int    `json:"priority,omitempty"`
}

type Cell struct {
	Item
	Occupied bool `json:"occupied"`
}

// View is a snapshot of any engine, flattened for rendering.
type View struct {
	Kind      Kind        `json:"kind"`
	Capacity  int         `json:"capacity"`
	Front     int         `json:"front"`
	Rear      int         `json:"rear"`
	Size      int         `json:"size"`
	State     queue.State `json:"state"`
	Exhausted bool        `json:"exhausted,omitempty"`
	Cells     []Cell      `json:"cells"`
}

// Simulator drives one engine with string payloads.
type Simulator interface {
	Kind() Kind
	Enqueue(value string, priority int) (queue.Transition, error)
	Dequeue() (Item, queue.Transition, error)
	Peek() (Item, queue.Transition, error)
	Reset() queue.Transition
	State() queue.State
	View() View
}

// NewSimulator builds the engine a definition asks for. The definition must
// have passed Validate.
func NewSimulator(d Definition) (Simulator, error) {
	switch d.Kind {
	case KindCircular:
		return &circular{q: queue.NewCircular[string](d.Capacity)}, nil
	case KindLinear:
		return &linear{q: queue.NewLinear[string](d.Capacity)}, nil
	case KindPriority:
		return &priority{q: queue.NewPriority[string](d.Capacity)}, nil
	default:
		return nil, fmt.Errorf("unknown lesson kind %q", d.Kind)
	}
}

func fifoView(kind Kind, s queue.Snapshot[string]) View {
	v := View{
		Kind:     kind,
		Capacity: s.Capacity,
		Front:    s.Front,
		Rear:     s.Rear,
		Size:     s.Size,
		State:    s.State,
		Cells:    make([]Cell, len(s.Slots)),
	}
	for i, slot := range s.Slots {
		v.Cells[i] = Cell{Item: Item{Value: slot.Value}, Occupied: slot.Occupied}
	}
	return v
}

type circular struct{ q *queue.Circular[string] }

func (c *circular) Kind() Kind { return KindCircular }

func (c *circular) Enqueue(value string, _ int) (queue.Transition, error) {
	return c.q.Enqueue(value)
}

func (c *circular) Dequeue() (Item, queue.Transition, error) {
	v, t, err := c.q.Dequeue()
	return Item{Value: v}, t, err
}

func (c *circular) Peek() (Item, queue.Transition, error) {
	v, t, err := c.q.Peek()
	return Item{Value: v}, t, err
}

func (c *circular) Reset() queue.Transition { return c.q.Reset() }
func (c *circular) State() queue.State      { return c.q.State() }
func (c *circular) View() View              { return fifoView(KindCircular, c.q.Snapshot()) }

type linear struct{ q *queue.Linear[string] }

func (l *linear) Kind() Kind { return KindLinear }

func (l *linear) Enqueue(value string, _ int) (queue.Transition, error) {
	return l.q.Enqueue(value)
}

func (l *linear) Dequeue() (Item, queue.Transition, error) {
	v, t, err := l.q.Dequeue()
	return Item{Value: v}, t, err
}

func (l *linear) Peek() (Item, queue.Transition, error) {
	v, t, err := l.q.Peek()
	return Item{Value: v}, t, err
}

func (l *linear) Reset() queue.Transition { return l.q.Reset() }
func (l *linear) State() queue.State      { return l.q.State() }

func (l *linear) View() View {
	v := fifoView(KindLinear, l.q.Snapshot())
	v.Exhausted = l.q.IsExhausted()
	return v
}

type priority struct{ q *queue.Priority[string] }

func (p *priority) Kind() Kind { return KindPriority }

func (p *priority) Enqueue(value string, prio int) (queue.Transition, error) {
	return p.q.Enqueue(value, prio)
}

func (p *priority) Dequeue() (Item, queue.Transition, error) {
	it, t, err := p.q.Dequeue()
	return Item{Value: it.Value, Priority: it.Priority}, t, err
}

func (p *priority) Peek() (Item, queue.Transition, error) {
	it, t, err := p.q.Peek()
	return Item{Value: it.Value, Priority: it.Priority}, t, err
}

func (p *priority) Reset() queue.Transition { return p.q.Reset() }
func (p *priority) State() queue.State      { return p.q.State() }

func (p *priority) View() View {
	s := p.q.Snapshot()
	v := View{
		Kind:     KindPriority,
		Capacity: s.Capacity,
		Front:    s.Front,
		Rear:     s.Rear,
		Size:     s.Size,
		State:    s.State,
		Cells:    make([]Cell, len(s.Slots)),
	}
	for i, slot := range s.Slots {
		v.Cells[i] = Cell{Item: Item{Value: slot.Value.Value, Priority: slot.Value.Priority}, Occupied: slot.Occupied}
	}
	return v
}
