package history

import (
	"errors"
	"testing"

	"github.com/dshills/graphnudge/internal/graph"
)

func newMachine() (*graph.StateMachine, *graph.State) {
	sm := graph.NewStateMachine("Base")
	s := sm.AddState("Idle", graph.Vec2{X: 10, Y: 10})
	return sm, s
}

func move(sm *graph.StateMachine, by graph.Vec2) {
	states := sm.States()
	for i := range states {
		states[i].Position = states[i].Position.Add(by)
	}
	sm.SetStates(states)
}

func pos(t *testing.T, sm *graph.StateMachine, s *graph.State) graph.Vec2 {
	t.Helper()
	p, ok := sm.StatePosition(s)
	if !ok {
		t.Fatal("state not found")
	}
	return p
}

func TestEmptyHistory(t *testing.T) {
	h := NewHistory(0)
	if h.CanUndo() || h.CanRedo() {
		t.Error("new history should be empty")
	}
	if err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() = %v", err)
	}
	if err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() = %v", err)
	}
	if _, ok := h.PeekUndo(); ok {
		t.Error("PeekUndo() on empty history")
	}
}

func TestRecordUndoRedo(t *testing.T) {
	h := NewHistory(10)
	sm, s := newMachine()

	h.RecordObject(sm, "Move State")
	move(sm, graph.Vec2{X: 5})

	info, ok := h.PeekUndo()
	if !ok || info.Description != "Move State" || info.Objects != 1 {
		t.Fatalf("PeekUndo() = %+v, %v", info, ok)
	}

	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := pos(t, sm, s); got != (graph.Vec2{X: 10, Y: 10}) {
		t.Errorf("after undo = %v", got)
	}

	if err := h.Redo(); err != nil {
		t.Fatal(err)
	}
	if got := pos(t, sm, s); got != (graph.Vec2{X: 15, Y: 10}) {
		t.Errorf("after redo = %v", got)
	}
}

func TestRecordsPerGroup(t *testing.T) {
	h := NewHistory(10)
	sm, s := newMachine()

	for i := 0; i < 3; i++ {
		h.RecordObject(sm, "Move State")
		move(sm, graph.Vec2{X: 1})
		h.RecordObject(sm, "Move State")
		h.IncrementCurrentGroup()
	}

	if h.UndoCount() != 3 {
		t.Fatalf("UndoCount() = %d, want one entry per group", h.UndoCount())
	}
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := pos(t, sm, s); got != (graph.Vec2{X: 12, Y: 10}) {
		t.Errorf("undo of one group = %v, want (12, 10)", got)
	}
}

func TestCollapseFrom(t *testing.T) {
	h := NewHistory(10)
	sm, s := newMachine()
	other := graph.NewStateMachine("Other")

	h.RecordObject(other, "Unrelated")
	h.IncrementCurrentGroup()

	start := h.CurrentGroup()
	h.SetCurrentGroupName("Move State Machine Nodes")
	for i := 0; i < 4; i++ {
		h.RecordObject(sm, "Move State")
		move(sm, graph.Vec2{Y: -5})
		h.IncrementCurrentGroup()
	}
	h.CollapseFrom(start)

	if h.UndoCount() != 2 {
		t.Fatalf("UndoCount() = %d, want 2", h.UndoCount())
	}
	info, _ := h.PeekUndo()
	if info.Description != "Move State Machine Nodes" || info.Objects != 1 || info.Group != start {
		t.Errorf("collapsed entry = %+v", info)
	}

	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := pos(t, sm, s); got != (graph.Vec2{X: 10, Y: 10}) {
		t.Errorf("undo of collapsed gesture = %v, want (10, 10)", got)
	}
	if err := h.Redo(); err != nil {
		t.Fatal(err)
	}
	if got := pos(t, sm, s); got != (graph.Vec2{X: 10, Y: -10}) {
		t.Errorf("redo of collapsed gesture = %v", got)
	}
}

func TestCollapseSingleEntryRenames(t *testing.T) {
	h := NewHistory(10)
	sm, _ := newMachine()

	start := h.CurrentGroup()
	h.RecordObject(sm, "Move State")
	h.SetCurrentGroupName("Move State Machine Nodes")
	h.IncrementCurrentGroup()
	h.CollapseFrom(start)

	info, _ := h.PeekUndo()
	if h.UndoCount() != 1 || info.Description != "Move State Machine Nodes" {
		t.Errorf("entry = %+v, count %d", info, h.UndoCount())
	}

	h.CollapseFrom(h.CurrentGroup())
	if h.UndoCount() != 1 {
		t.Error("collapsing an empty run must not change the stack")
	}
}

func TestRecordClearsRedo(t *testing.T) {
	h := NewHistory(10)
	sm, _ := newMachine()
	h.RecordObject(sm, "a")
	_ = h.Undo()
	if !h.CanRedo() {
		t.Fatal("expected redo")
	}
	h.RecordObject(sm, "b")
	if h.CanRedo() {
		t.Error("recording should clear redo")
	}
	if h.UndoCount() != 1 {
		t.Errorf("record after undo must open a new entry, count = %d", h.UndoCount())
	}
}

func TestMaxEntries(t *testing.T) {
	h := NewHistory(2)
	sm, _ := newMachine()
	for i := 0; i < 5; i++ {
		h.RecordObject(sm, "x")
		h.IncrementCurrentGroup()
	}
	if h.UndoCount() != 2 {
		t.Errorf("UndoCount() = %d, want 2", h.UndoCount())
	}
	if len(h.UndoInfo()) != 2 {
		t.Error("UndoInfo() length mismatch")
	}
	h.Clear()
	if h.CanUndo() {
		t.Error("Clear() should empty the stack")
	}
}
