package graph

import (
	"slices"

	"github.com/google/uuid"
)

// ChildState places a State inside its parent state machine.
type ChildState struct {
	State    *State
	Position Vec2
}

// ChildStateMachine places a nested StateMachine inside its parent.
type ChildStateMachine struct {
	StateMachine *StateMachine
	Position     Vec2
}

// StateMachine is a composite node: a sub-graph with its own children and
// pseudo-nodes. The positions of children live on the child records, so
// moving a child mutates its parent.
type StateMachine struct {
	id   uuid.UUID
	name string

	states   []ChildState
	machines []ChildStateMachine

	pseudoPos [pseudoKindCount]Vec2
	markers   [pseudoKindCount]*PseudoNode
}

// NewStateMachine creates an empty state machine with a fresh ID and the
// default pseudo-node layout.
func NewStateMachine(name string) *StateMachine {
	sm := &StateMachine{id: uuid.New(), name: name}
	for _, k := range PseudoKinds {
		sm.markers[k] = &PseudoNode{id: uuid.New(), kind: k, owner: sm}
	}
	sm.pseudoPos[PseudoEntry] = Vec2{X: 50, Y: 120}
	sm.pseudoPos[PseudoExit] = Vec2{X: 800, Y: 120}
	sm.pseudoPos[PseudoAnyState] = Vec2{X: 50, Y: 20}
	sm.pseudoPos[PseudoParent] = Vec2{X: 800, Y: 20}
	return sm
}

// ID returns the state machine identity.
func (sm *StateMachine) ID() uuid.UUID { return sm.id }

// Name returns the display name.
func (sm *StateMachine) Name() string { return sm.name }

// States returns a copy of the child state records.
func (sm *StateMachine) States() []ChildState {
	return slices.Clone(sm.states)
}

// SetStates replaces the child state records.
func (sm *StateMachine) SetStates(states []ChildState) {
	sm.states = slices.Clone(states)
}

// StateMachines returns a copy of the nested state machine records.
func (sm *StateMachine) StateMachines() []ChildStateMachine {
	return slices.Clone(sm.machines)
}

// SetStateMachines replaces the nested state machine records.
func (sm *StateMachine) SetStateMachines(machines []ChildStateMachine) {
	sm.machines = slices.Clone(machines)
}

// AddState appends a new state at pos and returns it.
func (sm *StateMachine) AddState(name string, pos Vec2) *State {
	s := NewState(name)
	sm.states = append(sm.states, ChildState{State: s, Position: pos})
	return s
}

// AddStateMachine appends a new nested state machine at pos and returns it.
func (sm *StateMachine) AddStateMachine(name string, pos Vec2) *StateMachine {
	child := NewStateMachine(name)
	sm.machines = append(sm.machines, ChildStateMachine{StateMachine: child, Position: pos})
	return child
}

// Pseudo returns the stable selection marker for the given pseudo-node.
func (sm *StateMachine) Pseudo(kind PseudoKind) *PseudoNode {
	if kind >= pseudoKindCount {
		return nil
	}
	return sm.markers[kind]
}

// PseudoPosition returns the position of a pseudo-node.
func (sm *StateMachine) PseudoPosition(kind PseudoKind) Vec2 {
	if kind >= pseudoKindCount {
		return Vec2{}
	}
	return sm.pseudoPos[kind]
}

// SetPseudoPosition moves a pseudo-node.
func (sm *StateMachine) SetPseudoPosition(kind PseudoKind, pos Vec2) {
	if kind >= pseudoKindCount {
		return
	}
	sm.pseudoPos[kind] = pos
}

// StatePosition returns the position of a direct child state.
func (sm *StateMachine) StatePosition(s *State) (Vec2, bool) {
	for _, cs := range sm.states {
		if cs.State == s {
			return cs.Position, true
		}
	}
	return Vec2{}, false
}

// StateMachinePosition returns the position of a direct child state machine.
func (sm *StateMachine) StateMachinePosition(child *StateMachine) (Vec2, bool) {
	for _, cm := range sm.machines {
		if cm.StateMachine == child {
			return cm.Position, true
		}
	}
	return Vec2{}, false
}

// Walk visits sm and every nested state machine depth-first. The parent of
// the root is nil. Returning false from fn stops descent below that machine.
func (sm *StateMachine) Walk(fn func(m, parent *StateMachine) bool) {
	sm.walk(nil, fn)
}

func (sm *StateMachine) walk(parent *StateMachine, fn func(m, parent *StateMachine) bool) {
	if !fn(sm, parent) {
		return
	}
	for _, cm := range sm.machines {
		if cm.StateMachine != nil {
			cm.StateMachine.walk(sm, fn)
		}
	}
}

// Snapshot captures the child records and pseudo-node positions.
func (sm *StateMachine) Snapshot() Memento {
	return &stateMachineMemento{
		owner:     sm.id,
		states:    slices.Clone(sm.states),
		machines:  slices.Clone(sm.machines),
		pseudoPos: sm.pseudoPos,
	}
}

// Restore resets sm to a memento taken from it. Mementos of other objects
// are ignored.
func (sm *StateMachine) Restore(m Memento) {
	mm, ok := m.(*stateMachineMemento)
	if !ok || mm.owner != sm.id {
		return
	}
	sm.states = slices.Clone(mm.states)
	sm.machines = slices.Clone(mm.machines)
	sm.pseudoPos = mm.pseudoPos
}

type stateMachineMemento struct {
	owner     uuid.UUID
	states    []ChildState
	machines  []ChildStateMachine
	pseudoPos [pseudoKindCount]Vec2
}

func (m *stateMachineMemento) Owner() uuid.UUID { return m.owner }
