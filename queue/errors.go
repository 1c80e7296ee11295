package queue

import (
	"errors"
	"fmt"
)

// Kind classifies a refused operation.
type Kind int

const (
	// Overflow means an enqueue hit a full or exhausted container.
	Overflow Kind = iota + 1
	// Underflow means a dequeue or peek hit an empty container.
	Underflow
)

func (k Kind) String() string {
	switch k {
	case Overflow:
		return "overflow"
	case Underflow:
		return "underflow"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

var (
	ErrOverflow  = errors.New("queue overflow")
	ErrUnderflow = errors.New("queue underflow")
)

// Error is returned by engine operations whose precondition does not hold.
// The engine is left untouched when one is returned.
type Error struct {
	Op      Op
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
}

// Is lets errors.Is match an *Error against ErrOverflow and ErrUnderflow.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrOverflow:
		return e.Kind == Overflow
	case ErrUnderflow:
		return e.Kind == Underflow
	}
	return false
}

func overflow(op Op, format string, args ...any) error {
	return &Error{Op: op, Kind: Overflow, Message: fmt.Sprintf(format, args...)}
}

func underflow(op Op, format string, args ...any) error {
	return &Error{Op: op, Kind: Underflow, Message: fmt.Sprintf(format, args...)}
}
