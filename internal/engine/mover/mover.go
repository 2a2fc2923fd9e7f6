// Package mover applies a movement offset to the selected nodes of the
// current layer and records the changes with the host.
//
// The walk covers leaf states, nested state machines and the pseudo-nodes of
// every machine in the layer. Selection is checked per element: a nested
// machine is descended into whether or not it is selected itself.
package mover

import (
	"github.com/dshills/graphnudge/internal/binding"
	"github.com/dshills/graphnudge/internal/graph"
	"github.com/dshills/graphnudge/internal/logging"
)

// Undo labels recorded before each kind of mutation.
const (
	LabelMoveState        = "Move State"
	LabelMoveStateMachine = "Move Sub-StateMachine"
)

// PseudoLabel returns the undo label for moving a pseudo-node.
func PseudoLabel(k graph.PseudoKind) string {
	return "Move " + k.String() + " Node"
}

// Result summarizes one ApplyOffset call.
type Result struct {
	States        int
	StateMachines int
	PseudoNodes   int
	Rebuilt       bool
}

// Moved returns the number of moved elements.
func (r Result) Moved() int {
	return r.States + r.StateMachines + r.PseudoNodes
}

// Engine moves selected nodes. It carries the pending flags of the current
// gesture between ApplyOffset calls until FlushChanges.
type Engine struct {
	ctx *binding.Context
	log *logging.Logger

	dirtyPending   bool
	rebuildPending bool
	touched        *graph.Document
}

// New creates an engine over a binding context.
func New(ctx *binding.Context, log *logging.Logger) *Engine {
	return &Engine{
		ctx: ctx,
		log: logging.OrDiscard(log).WithComponent("mover"),
	}
}

// DirtyPending reports whether geometry changed since the last flush.
func (e *Engine) DirtyPending() bool { return e.dirtyPending }

// RebuildPending reports whether the graph view was rebuilt during the
// current gesture.
func (e *Engine) RebuildPending() bool { return e.rebuildPending }

// MoveSelected applies offset to the bound document's selected layer. It
// returns ErrNoLayer when no layer of the document is selected, so callers
// can tell an unresolved tick from one that moved nothing.
func (e *Engine) MoveSelected(offset graph.Vec2) (Result, error) {
	doc := e.ctx.Document()
	if doc == nil {
		return Result{}, binding.ErrNoDocument
	}
	idx := e.ctx.SelectedLayerIndex()
	if _, ok := doc.Layer(idx); !ok {
		return Result{}, binding.ErrNoLayer
	}
	return e.ApplyOffset(doc, idx, offset)
}

// ApplyOffset moves every selected element of layer layerIndex of doc by
// offset. A zero offset, an empty document or an unresolvable layer is a
// no-op that records nothing.
func (e *Engine) ApplyOffset(doc *graph.Document, layerIndex int, offset graph.Vec2) (Result, error) {
	if doc == nil {
		return Result{}, binding.ErrNoDocument
	}
	if offset.IsZero() || doc.LayerCount() == 0 {
		return Result{}, nil
	}
	layer, ok := doc.Layer(layerIndex)
	if !ok || layer.StateMachine == nil {
		return Result{}, nil
	}

	w := &walk{
		ctx:      e.ctx,
		offset:   offset,
		recorded: make(map[*graph.StateMachine]bool),
	}
	w.visit(layer.StateMachine, nil)

	res := w.res
	if res.Moved() > 0 {
		e.dirtyPending = true
		e.touched = doc
	}

	if res.PseudoNodes > 0 && !e.rebuildPending {
		e.rebuildPending = true
		res.Rebuilt = e.rebuild()
	}

	e.log.Debug("moved %d states, %d machines, %d pseudo-nodes by %v",
		res.States, res.StateMachines, res.PseudoNodes, offset)
	return res, nil
}

// rebuild refreshes the graph view while keeping the selection exactly as it
// was.
func (e *Engine) rebuild() bool {
	if !e.ctx.CanRebuild() {
		return false
	}
	previous := e.ctx.SelectionSnapshot()
	err := e.ctx.RebuildGraph(true)
	e.ctx.RestoreSelection(previous)
	if err != nil {
		e.log.Error("graph rebuild failed: %v", err)
		return false
	}
	return true
}

// FlushChanges ends a gesture: the document is marked modified if anything
// moved, and the pending flags are cleared.
func (e *Engine) FlushChanges() {
	if e.dirtyPending {
		if doc := e.ctx.Document(); doc != nil && doc == e.touched {
			e.ctx.MarkModified(doc)
		}
		e.dirtyPending = false
	}
	e.touched = nil
	e.rebuildPending = false
}

// walk is the state of one traversal.
type walk struct {
	ctx      *binding.Context
	offset   graph.Vec2
	recorded map[*graph.StateMachine]bool
	res      Result
}

// record snapshots sm once per traversal, before its first edit.
func (w *walk) record(sm *graph.StateMachine, label string) {
	if w.recorded[sm] {
		return
	}
	w.recorded[sm] = true
	if u := w.ctx.Undo(); u != nil {
		u.RecordObject(sm, label)
	}
}

func (w *walk) visit(sm, parent *graph.StateMachine) {
	states := sm.States()
	changed := false
	for i := range states {
		if states[i].State == nil || !w.ctx.IsSelected(states[i].State) {
			continue
		}
		w.record(sm, LabelMoveState)
		states[i].Position = states[i].Position.Add(w.offset)
		changed = true
		w.res.States++
	}
	if changed {
		sm.SetStates(states)
		w.ctx.MarkModified(sm)
	}

	machines := sm.StateMachines()
	changed = false
	for i := range machines {
		child := machines[i].StateMachine
		if child == nil {
			continue
		}
		if w.ctx.IsSelected(child) {
			w.record(sm, LabelMoveStateMachine)
			machines[i].Position = machines[i].Position.Add(w.offset)
			changed = true
			w.res.StateMachines++
		}
		w.visit(child, sm)
	}
	if changed {
		sm.SetStateMachines(machines)
		w.ctx.MarkModified(sm)
	}

	changed = false
	for _, k := range graph.PseudoKinds {
		if k == graph.PseudoParent && parent == nil {
			continue
		}
		if !w.ctx.IsSelected(sm.Pseudo(k)) {
			continue
		}
		w.record(sm, PseudoLabel(k))
		sm.SetPseudoPosition(k, sm.PseudoPosition(k).Add(w.offset))
		changed = true
		w.res.PseudoNodes++
	}
	if changed {
		w.ctx.MarkModified(sm)
	}
}
