package memhost

import (
	"github.com/google/uuid"

	"github.com/dshills/graphnudge/internal/graph"
)

// GraphEditorType is the type name reported by GraphWindow.
const GraphEditorType = "statemachine.GraphEditor"

// Window is a plain surface showing an optional document. It has no rebuild
// or layer capability.
type Window struct {
	typeName string
	doc      *graph.Document
}

// NewWindow creates a window of the given type.
func NewWindow(typeName string, doc *graph.Document) *Window {
	return &Window{typeName: typeName, doc: doc}
}

// TypeName returns the window type.
func (w *Window) TypeName() string { return w.typeName }

// Document returns the open document.
func (w *Window) Document() *graph.Document { return w.doc }

// Open replaces the open document without closing the window, as a reload
// or reimport does.
func (w *Window) Open(doc *graph.Document) { w.doc = doc }

// GraphWindow is a state-machine graph editor. It caches the positions of
// pseudo-nodes for drawing and refreshes them only on RebuildGraph.
type GraphWindow struct {
	Window

	selection *Selection
	layer     int
	anchors   map[uuid.UUID]graph.Vec2
	rebuilds  int

	// OnRebuild, if set, runs at the end of every rebuild.
	OnRebuild func(preserveSelection bool)
}

// NewGraphWindow creates a graph editor showing doc.
func NewGraphWindow(doc *graph.Document, selection *Selection) *GraphWindow {
	w := &GraphWindow{
		Window:    Window{typeName: GraphEditorType, doc: doc},
		selection: selection,
	}
	w.computeAnchors()
	return w
}

// Open replaces the document and recomputes the layout.
func (w *GraphWindow) Open(doc *graph.Document) {
	w.doc = doc
	w.layer = 0
	w.computeAnchors()
}

// SelectedLayerIndex returns the layer being shown.
func (w *GraphWindow) SelectedLayerIndex() int { return w.layer }

// SelectLayer switches the shown layer.
func (w *GraphWindow) SelectLayer(i int) {
	w.layer = i
	w.computeAnchors()
}

// RebuildGraph recomputes cached anchors. Pseudo-node selection entries
// belong to the old view and are dropped; without preserveSelection the
// whole selection is cleared.
func (w *GraphWindow) RebuildGraph(preserveSelection bool) {
	w.rebuilds++
	w.computeAnchors()
	if w.selection != nil {
		if preserveSelection {
			var keep []graph.Object
			for _, o := range w.selection.Objects() {
				if _, pseudo := o.(*graph.PseudoNode); !pseudo {
					keep = append(keep, o)
				}
			}
			w.selection.SetObjects(keep)
		} else {
			w.selection.SetObjects(nil)
		}
	}
	if w.OnRebuild != nil {
		w.OnRebuild(preserveSelection)
	}
}

// Rebuilds returns how many times RebuildGraph ran.
func (w *GraphWindow) Rebuilds() int { return w.rebuilds }

// Anchor returns the cached drawing position of a pseudo-node.
func (w *GraphWindow) Anchor(p *graph.PseudoNode) (graph.Vec2, bool) {
	v, ok := w.anchors[p.ID()]
	return v, ok
}

func (w *GraphWindow) computeAnchors() {
	w.anchors = make(map[uuid.UUID]graph.Vec2)
	if w.doc == nil {
		return
	}
	layer, ok := w.doc.Layer(w.layer)
	if !ok || layer.StateMachine == nil {
		return
	}
	layer.StateMachine.Walk(func(m, _ *graph.StateMachine) bool {
		for _, k := range graph.PseudoKinds {
			p := m.Pseudo(k)
			w.anchors[p.ID()] = p.Position()
		}
		return true
	})
}
