package memhost

import (
	"testing"

	"github.com/dshills/graphnudge/internal/graph"
)

func TestSelectionOrderAndDedup(t *testing.T) {
	a := graph.NewState("A")
	b := graph.NewState("B")
	s := NewSelection(b, a, b, nil)

	objs := s.Objects()
	if len(objs) != 2 || objs[0] != b || objs[1] != a {
		t.Fatalf("Objects() = %v, want [B A]", objs)
	}
	if !s.Contains(a) || s.Contains(graph.NewState("C")) || s.Contains(nil) {
		t.Error("Contains() wrong")
	}

	s.Toggle(a)
	if s.Contains(a) || s.Len() != 1 {
		t.Error("Toggle() should remove a selected object")
	}
	s.Toggle(a)
	if !s.Contains(a) || s.Len() != 2 {
		t.Error("Toggle() should add an unselected object")
	}
}

func TestWorkbenchFocus(t *testing.T) {
	wb := NewWorkbench()
	doc := graph.NewDocument("Doc")
	w1 := NewGraphWindow(doc, NewSelection())
	w2 := NewWindow("Inspector", nil)

	wb.Open(w1)
	wb.Open(w2)
	if wb.HasFocus(w1) || !wb.HasFocus(w2) {
		t.Error("last opened window should have focus")
	}
	if got := wb.ResolveDocument(w1); got != doc {
		t.Errorf("ResolveDocument() = %v", got)
	}

	wb.Close(w2)
	if len(wb.Surfaces()) != 1 || wb.HasFocus(w2) {
		t.Error("Close() should remove the window and its focus")
	}
	if wb.HasFocus(nil) {
		t.Error("nil surface never has focus")
	}
}

func TestGraphWindowRebuild(t *testing.T) {
	doc := graph.NewDocument("Doc")
	root := doc.AddLayer("Base")
	state := root.AddState("Idle", graph.Vec2{})
	entry := root.Pseudo(graph.PseudoEntry)

	sel := NewSelection(state, entry)
	w := NewGraphWindow(doc, sel)

	root.SetPseudoPosition(graph.PseudoEntry, graph.Vec2{X: 1, Y: 1})
	if a, _ := w.Anchor(entry); a == (graph.Vec2{X: 1, Y: 1}) {
		t.Fatal("anchor must stay stale until rebuild")
	}

	w.RebuildGraph(true)
	if a, _ := w.Anchor(entry); a != (graph.Vec2{X: 1, Y: 1}) {
		t.Errorf("anchor after rebuild = %v", a)
	}
	if w.Rebuilds() != 1 {
		t.Errorf("Rebuilds() = %d", w.Rebuilds())
	}
	if sel.Contains(entry) || !sel.Contains(state) {
		t.Error("preserving rebuild should drop only pseudo-node entries")
	}

	w.RebuildGraph(false)
	if sel.Len() != 0 {
		t.Error("non-preserving rebuild should clear the selection")
	}
}

func TestDirtySet(t *testing.T) {
	d := NewDirtySet()
	s := graph.NewState("A")
	d.MarkModified(s)
	d.MarkModified(s)
	if !d.IsDirty(s) || d.Count(s) != 2 || d.Len() != 1 {
		t.Error("marks not recorded")
	}
	d.Clear()
	if d.IsDirty(s) {
		t.Error("Clear() should forget marks")
	}
}
