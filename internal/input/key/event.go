package key

import (
	"fmt"
	"time"
)

// Action is the direction of a key transition.
type Action uint8

const (
	// ActionDown is a key press (or auto-repeat).
	ActionDown Action = iota + 1
	// ActionUp is a key release.
	ActionUp
)

// String returns "down" or "up".
func (a Action) String() string {
	switch a {
	case ActionDown:
		return "down"
	case ActionUp:
		return "up"
	default:
		return "none"
	}
}

// Event represents a single key transition.
type Event struct {
	// Key identifies the key.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Action is down or up.
	Action Action

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Down creates a key-down event with the current timestamp.
func Down(k Key) Event {
	return Event{Key: k, Action: ActionDown, Timestamp: time.Now()}
}

// Up creates a key-up event with the current timestamp.
func Up(k Key) Event {
	return Event{Key: k, Action: ActionUp, Timestamp: time.Now()}
}

// IsDown returns true for key presses.
func (e Event) IsDown() bool { return e.Action == ActionDown }

// IsUp returns true for key releases.
func (e Event) IsUp() bool { return e.Action == ActionUp }

// String returns e.g. "Alt+Left down".
func (e Event) String() string {
	name := e.Key.String()
	if e.Key == KeyRune {
		name = string(e.Rune)
	}
	if mods := e.Modifiers.String(); mods != "" {
		name = mods + "+" + name
	}
	return fmt.Sprintf("%s %s", name, e.Action)
}
