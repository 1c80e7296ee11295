package queue

import (
	"encoding/json"
)

// Slot is one cell of a bounded container.
type Slot[T any] struct {
	Value    T    `json:"value"`
	Occupied bool `json:"occupied"`
}

// Slots is fixed-capacity storage indexed 0..Cap()-1. It knows nothing about
// queue pointers; the engines decide which cells are live.
type Slots[T any] struct {
	buf  []Slot[T]
	used int
}

func (s *Slots[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.buf)
}

// NewSlots creates an empty container with the given capacity.
func NewSlots[T any](capacity int) *Slots[T] {
	if capacity <= 0 {
		panic("capacity must be > 0")
	}
	return &Slots[T]{buf: make([]Slot[T], capacity)}
}

func (s *Slots[T]) Cap() int {
	return len(s.buf)
}

// Len is the number of occupied cells.
func (s *Slots[T]) Len() int {
	return s.used
}

// Put writes x into cell i and marks it occupied.
func (s *Slots[T]) Put(i int, x T) {
	s.check(i)
	if !s.buf[i].Occupied {
		s.used++
	}
	s.buf[i] = Slot[T]{Value: x, Occupied: true}
}

// Take clears cell i and returns what it held.
func (s *Slots[T]) Take(i int) (T, bool) {
	s.check(i)
	old := s.buf[i]
	if old.Occupied {
		s.used--
	}
	s.buf[i] = Slot[T]{}
	return old.Value, old.Occupied
}

// At returns the content of cell i without changing it.
func (s *Slots[T]) At(i int) (T, bool) {
	s.check(i)
	return s.buf[i].Value, s.buf[i].Occupied
}

// Clear empties every cell.
func (s *Slots[T]) Clear() {
	clear(s.buf)
	s.used = 0
}

// Cells returns a copy of every cell in index order.
func (s *Slots[T]) Cells() []Slot[T] {
	out := make([]Slot[T], len(s.buf))
	copy(out, s.buf)
	return out
}

func (s *Slots[T]) check(i int) {
	if i < 0 || i >= len(s.buf) {
		panic("index out of range")
	}
}
