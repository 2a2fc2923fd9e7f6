package host

import (
	"github.com/dshills/graphnudge/internal/graph"
)

// Surface is a top-level editor window or panel.
type Surface interface {
	// TypeName identifies the kind of surface, e.g. "statemachine.GraphEditor".
	TypeName() string
}

// SurfaceEnumerator lists the live top-level surfaces.
type SurfaceEnumerator interface {
	Surfaces() []Surface
}

// FocusQuery reports whether a surface currently has input focus.
type FocusQuery interface {
	HasFocus(s Surface) bool
}

// DocumentResolver returns the document a surface is currently showing, or
// nil when it shows none.
type DocumentResolver interface {
	ResolveDocument(s Surface) *graph.Document
}

// Selection is the host-owned set of selected document objects.
type Selection interface {
	// Objects returns the selected objects in selection order.
	Objects() []graph.Object
	// SetObjects replaces the selection.
	SetObjects(objs []graph.Object)
	// Contains reports whether obj is selected.
	Contains(obj graph.Object) bool
}

// UndoService is the host undo stack as seen by a gesture.
type UndoService interface {
	// CurrentGroup returns the ID of the group new records go into.
	CurrentGroup() int
	// SetCurrentGroupName labels the current group.
	SetCurrentGroupName(name string)
	// CollapseFrom merges every group from groupID onward into one entry.
	CollapseFrom(groupID int)
	// RecordObject snapshots obj before it is mutated.
	RecordObject(obj graph.Snapshotter, label string)
}

// DirtyMarker flags objects that need saving.
type DirtyMarker interface {
	MarkModified(obj graph.Object)
}

// GraphRebuilder is an optional Surface capability that recomputes cached
// layout derived from node positions. The rebuild may reset the selection.
type GraphRebuilder interface {
	RebuildGraph(preserveSelection bool)
}

// LayerSelector is an optional Surface capability reporting which layer the
// surface is showing.
type LayerSelector interface {
	SelectedLayerIndex() int
}

// Settings is the store holding the movement step.
type Settings interface {
	MoveStep() float64
	SetMoveStep(v float64)
}

// Services bundles the collaborators a binding needs.
type Services struct {
	Surfaces  SurfaceEnumerator
	Focus     FocusQuery
	Documents DocumentResolver
	Selection Selection
	Undo      UndoService
	Dirty     DirtyMarker
}
