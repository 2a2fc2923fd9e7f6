package graph

import "github.com/google/uuid"

// Object is anything that can be selected, recorded for undo, or marked
// modified.
type Object interface {
	ID() uuid.UUID
	Name() string
}

// Snapshotter is an Object whose state can be captured before a mutation and
// restored later.
type Snapshotter interface {
	Object
	Snapshot() Memento
	Restore(m Memento)
}

// Memento is an opaque captured state produced by Snapshotter.Snapshot.
type Memento interface {
	// Owner returns the ID of the object the memento was taken from.
	Owner() uuid.UUID
}

// State is a leaf node of a state machine.
type State struct {
	id   uuid.UUID
	name string
}

// NewState creates a state with a fresh ID.
func NewState(name string) *State {
	return &State{id: uuid.New(), name: name}
}

// ID returns the state's identity.
func (s *State) ID() uuid.UUID { return s.id }

// Name returns the state's display name.
func (s *State) Name() string { return s.name }

// Rename changes the display name.
func (s *State) Rename(name string) { s.name = name }
