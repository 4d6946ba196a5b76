// Package types holds small types shared between input sources and the game.
package types

import (
	"fmt"
	"time"
)

type EventKind uint8

const (
	EventInvalid EventKind = iota
	EventInput
	EventTime
	EventStop
)

func (k EventKind) String() string {
	switch k {
	case EventInvalid:
		return "Invalid"
	case EventInput:
		return "Input"
	case EventTime:
		return "Time"
	case EventStop:
		return "Stop"
	}
	return fmt.Sprintf("?%d", uint8(k))
}

type Event struct {
	Input InputEvent
	Kind  EventKind
}

func (e *Event) String() string {
	inner := ""
	if e.Kind == EventInput {
		inner = fmt.Sprintf(" source=%s key=%d up=%t", e.Input.Source, e.Input.Key, e.Input.Up)
	}
	return fmt.Sprintf("Event(%s%s)", e.Kind.String(), inner)
}

type InputKey uint16

// InputEvent is one raw device event: a key or a joystick button edge.
// At is a monotonic-ish timestamp taken at read time; the scan burst
// classifier and the shutdown combo compare these, never tick counts.
type InputEvent struct {
	At     time.Time
	Source string
	Key    InputKey
	Up     bool
}

func (e *InputEvent) IsZero() bool { return e.Source == "" && e.Key == 0 }
