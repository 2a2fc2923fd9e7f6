package input

import (
	"github.com/dshills/graphnudge/internal/graph"
	"github.com/dshills/graphnudge/internal/input/key"
)

// Direction represents an arrow direction.
type Direction uint8

const (
	// DirNone indicates no direction.
	DirNone Direction = iota
	// DirUp indicates upward direction.
	DirUp
	// DirDown indicates downward direction.
	DirDown
	// DirLeft indicates leftward direction.
	DirLeft
	// DirRight indicates rightward direction.
	DirRight
)

// String returns a string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Unit returns the unit vector of d in document space.
func (d Direction) Unit() graph.Vec2 {
	switch d {
	case DirUp:
		return graph.Vec2{Y: -1}
	case DirDown:
		return graph.Vec2{Y: 1}
	case DirLeft:
		return graph.Vec2{X: -1}
	case DirRight:
		return graph.Vec2{X: 1}
	default:
		return graph.Vec2{}
	}
}

// DirectionOf returns the direction of an arrow key, or DirNone.
func DirectionOf(k key.Key) Direction {
	switch k {
	case key.KeyUp:
		return DirUp
	case key.KeyDown:
		return DirDown
	case key.KeyLeft:
		return DirLeft
	case key.KeyRight:
		return DirRight
	default:
		return DirNone
	}
}

// IsTracked reports whether k takes part in movement gestures.
func IsTracked(k key.Key) bool {
	return k.IsArrowKey() || k == key.KeyAlt
}

// SessionState is the gesture state of the coordinator.
type SessionState uint8

const (
	// StateIdle means no gesture is open.
	StateIdle SessionState = iota
	// StateDragging means an undo group is open for the current gesture.
	StateDragging
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	default:
		return "unknown"
	}
}
