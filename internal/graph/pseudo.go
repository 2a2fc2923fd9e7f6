package graph

import (
	"fmt"

	"github.com/google/uuid"
)

// PseudoKind enumerates the fixed non-enumerable nodes of a state machine.
type PseudoKind uint8

const (
	// PseudoEntry is the entry node.
	PseudoEntry PseudoKind = iota
	// PseudoExit is the exit node.
	PseudoExit
	// PseudoAnyState is the any-state node.
	PseudoAnyState
	// PseudoParent is the link back to the enclosing state machine.
	// Only nested state machines draw it.
	PseudoParent

	pseudoKindCount
)

// PseudoKinds lists every pseudo-node kind in traversal order.
var PseudoKinds = [...]PseudoKind{PseudoEntry, PseudoExit, PseudoAnyState, PseudoParent}

// String returns the node name used in undo labels.
func (k PseudoKind) String() string {
	switch k {
	case PseudoEntry:
		return "Entry"
	case PseudoExit:
		return "Exit"
	case PseudoAnyState:
		return "Any State"
	case PseudoParent:
		return "Parent StateMachine"
	default:
		return fmt.Sprintf("PseudoKind(%d)", k)
	}
}

// PseudoNode is the selectable marker for one pseudo-node of a state
// machine. Markers are stable for the lifetime of their owner, so a
// selection holding one keeps matching across rebuilds.
type PseudoNode struct {
	id    uuid.UUID
	kind  PseudoKind
	owner *StateMachine
}

// ID returns the marker identity.
func (p *PseudoNode) ID() uuid.UUID { return p.id }

// Name returns e.g. "Base Layer/Entry".
func (p *PseudoNode) Name() string {
	return p.owner.Name() + "/" + p.kind.String()
}

// Kind returns the pseudo-node kind.
func (p *PseudoNode) Kind() PseudoKind { return p.kind }

// Owner returns the state machine the pseudo-node belongs to.
func (p *PseudoNode) Owner() *StateMachine { return p.owner }

// Position returns the current position of the pseudo-node.
func (p *PseudoNode) Position() Vec2 {
	return p.owner.PseudoPosition(p.kind)
}
