package host

import (
	"time"

	"github.com/dshills/graphnudge/internal/input/key"
)

// EventType identifies the type of host input event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventFocus
)

// Event is one input event travelling through the host's handler chain.
type Event struct {
	Type EventType

	// Key event fields
	Key key.Event

	// Focus event fields
	Focused bool

	Time time.Time

	used bool
}

// KeyEvent wraps a key transition in a host event.
func KeyEvent(ke key.Event) *Event {
	t := ke.Timestamp
	if t.IsZero() {
		t = time.Now()
	}
	return &Event{Type: EventKey, Key: ke, Time: t}
}

// Use marks the event handled so later handlers and the host's own
// shortcuts skip it.
func (e *Event) Use() { e.used = true }

// Used reports whether a handler consumed the event.
func (e *Event) Used() bool { return e.used }

// Handler receives events from the host pipeline.
type Handler func(ev *Event)

// Pipeline is the host's input handler chain. AddHandler appends without
// removing handlers that are already installed.
type Pipeline interface {
	AddHandler(h Handler)
}
