package main

import (
	"encoding/json"
)

// History keeps the most recent events of a session. When full, each Push
// evicts the oldest entry.
type History[T any] struct {
	buf  []T
	next int
	full bool
}

func (h *History[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Slice())
}

// NewHistory creates a history holding at most capacity entries.
func NewHistory[T any](capacity int) *History[T] {
	if capacity <= 0 {
		panic("capacity must be > 0")
	}
	return &History[T]{buf: make([]T, capacity)}
}

func (h *History[T]) Cap() int {
	return len(h.buf)
}

func (h *History[T]) Len() int {
	if h.full {
		return len(h.buf)
	}
	return h.next
}

// Push appends x, overwriting the oldest entry when full.
func (h *History[T]) Push(x T) {
	h.buf[h.next] = x
	h.next = (h.next + 1) % len(h.buf)
	if h.next == 0 {
		h.full = true
	}
}

// At returns the i-th entry, 0 being the oldest still held.
func (h *History[T]) At(i int) T {
	if i < 0 || i >= h.Len() {
		panic("index out of range")
	}
	if !h.full {
		return h.buf[i]
	}
	return h.buf[(h.next+i)%len(h.buf)]
}

// Slice copies the entries out, oldest first.
func (h *History[T]) Slice() []T {
	out := make([]T, h.Len())
	for i := range out {
		out[i] = h.At(i)
	}
	return out
}

// After returns the entries following the newest one for which match
// returns true. If nothing matches, every entry is returned.
func (h *History[T]) After(match func(T) bool) []T {
	all := h.Slice()
	for i := len(all) - 1; i >= 0; i-- {
		if match(all[i]) {
			return all[i+1:]
		}
	}
	return all
}
