package lesson

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/DeterminateSystems/queuesimd/queue"
)

// Command is one scripted operation.
type Command struct {
	Line     int      `json:"line,omitempty"`
	Op       queue.Op `json:"op"`
	Value    string   `json:"value,omitempty"`
	Priority int      `json:"priority,omitempty"`
}

func (c Command) String() string {
	switch {
	case c.Op != queue.OpEnqueue:
		return string(c.Op)
	case c.Priority != 0:
		return fmt.Sprintf("enqueue %s %d", c.Value, c.Priority)
	default:
		return "enqueue " + c.Value
	}
}

// Result is what applying a Command produced. Item is set for dequeue and
// peek.
type Result struct {
	Command    Command          `json:"command"`
	Transition queue.Transition `json:"transition"`
	Item       *Item            `json:"item,omitempty"`
}

// Apply runs c against sim. Refused operations come back as a *queue.Error.
func Apply(sim Simulator, c Command) (Result, error) {
	r := Result{Command: c}
	var err error

	switch c.Op {
	case queue.OpEnqueue:
		r.Transition, err = sim.Enqueue(c.Value, c.Priority)
	case queue.OpDequeue, queue.OpPeek:
		var it Item
		if c.Op == queue.OpDequeue {
			it, r.Transition, err = sim.Dequeue()
		} else {
			it, r.Transition, err = sim.Peek()
		}
		if err == nil {
			r.Item = &it
		}
	case queue.OpReset:
		r.Transition = sim.Reset()
	default:
		return r, fmt.Errorf("unknown operation %q", c.Op)
	}
	return r, err
}

// ParseScript reads one command per line:
//
//	enqueue <value> [priority]
//	dequeue
//	peek
//	reset
//
// Blank lines and lines starting with # are skipped.
func ParseScript(r io.Reader) ([]Command, error) {
	var cmds []Command
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		c, err := ParseCommand(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		c.Line = line
		cmds = append(cmds, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return cmds, nil
}

func ParseCommand(text string) (Command, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	c := Command{Op: queue.Op(strings.ToLower(fields[0]))}
	args := fields[1:]

	switch c.Op {
	case queue.OpEnqueue:
		if len(args) < 1 || len(args) > 2 {
			return Command{}, fmt.Errorf("enqueue takes a value and an optional priority, got %d argument(s)", len(args))
		}
		c.Value = args[0]
		if len(args) == 2 {
			p, err := strconv.Atoi(args[1])
			if err != nil {
				return Command{}, fmt.Errorf("bad priority %q: %w", args[1], err)
			}
			c.Priority = p
		}
	case queue.OpDequeue, queue.OpPeek, queue.OpReset:
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%s takes no arguments", c.Op)
		}
	default:
		return Command{}, fmt.Errorf("unknown operation %q", fields[0])
	}
	return c, nil
}
