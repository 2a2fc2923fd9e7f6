// Package binding holds the state shared by the tracker, the input
// coordinator and the movement engine: the bound surface, its document, and
// read accessors over the host's selection.
//
// All accessors are reads over host-owned state. Bind, SetDocument and Clear
// are the only mutators and belong to the document binding tracker. Every
// call into the host goes through Guard so that a misbehaving host costs one
// tick, not the process.
package binding

import (
	"github.com/dshills/graphnudge/internal/graph"
	"github.com/dshills/graphnudge/internal/host"
	"github.com/dshills/graphnudge/internal/logging"
)

// Context is the binding between graphnudge and one host surface.
type Context struct {
	svc host.Services
	log *logging.Logger

	surface   host.Surface
	document  *graph.Document
	rebuilder host.GraphRebuilder
}

// New creates an unbound context.
func New(svc host.Services, log *logging.Logger) *Context {
	return &Context{
		svc: svc,
		log: logging.OrDiscard(log).WithComponent("binding"),
	}
}

// Services returns the host collaborators.
func (c *Context) Services() host.Services {
	return c.svc
}

// Surface returns the bound surface, or nil.
func (c *Context) Surface() host.Surface {
	return c.surface
}

// Document returns the resolved document, or nil.
func (c *Context) Document() *graph.Document {
	return c.document
}

// IsBound reports whether a surface is bound.
func (c *Context) IsBound() bool {
	return c.surface != nil
}

// Bind installs s as the bound surface and locates its rebuild capability.
// A surface without one is still bound; only the automatic rebuild after a
// pseudo-node move is lost.
func (c *Context) Bind(s host.Surface) {
	c.surface = s
	c.rebuilder = nil
	if s == nil {
		return
	}
	if r, ok := s.(host.GraphRebuilder); ok {
		c.rebuilder = r
		return
	}
	c.log.Warn("%v: RebuildGraph not found on %s", ErrCapabilityUnavailable, s.TypeName())
}

// SetDocument installs the resolved document.
func (c *Context) SetDocument(doc *graph.Document) {
	c.document = doc
}

// Clear drops the surface, the document and cached capabilities.
func (c *Context) Clear() {
	c.surface = nil
	c.document = nil
	c.rebuilder = nil
}

// CanRebuild reports whether the bound surface can rebuild its graph view.
func (c *Context) CanRebuild() bool {
	return c.surface != nil && c.rebuilder != nil
}

// IsFocused reports whether the bound surface has input focus.
func (c *Context) IsFocused() bool {
	if c.surface == nil || c.svc.Focus == nil {
		return false
	}
	var focused bool
	if err := Guard("focus", func() { focused = c.svc.Focus.HasFocus(c.surface) }); err != nil {
		c.log.Error("focus query failed: %v", err)
		return false
	}
	return focused
}

// ResolveDocument asks the host which document the bound surface shows.
// It does not install the result.
func (c *Context) ResolveDocument() (*graph.Document, error) {
	if c.surface == nil {
		return nil, ErrNoSurface
	}
	if c.svc.Documents == nil {
		return nil, ErrCapabilityUnavailable
	}
	var doc *graph.Document
	if err := Guard("resolve document", func() { doc = c.svc.Documents.ResolveDocument(c.surface) }); err != nil {
		c.log.Error("document resolution failed: %v", err)
		return nil, err
	}
	return doc, nil
}

// SelectedLayerIndex maps the surface's layer selection to an index into the
// current document, or -1 when it cannot be determined.
func (c *Context) SelectedLayerIndex() int {
	if c.surface == nil || c.document == nil {
		return -1
	}
	sel, ok := c.surface.(host.LayerSelector)
	if !ok {
		return -1
	}
	idx := -1
	if err := Guard("layer index", func() { idx = sel.SelectedLayerIndex() }); err != nil {
		c.log.Error("failed to get selected layer index: %v", err)
		return -1
	}
	if idx < 0 || idx >= c.document.LayerCount() {
		return -1
	}
	return idx
}

// SelectedLayer returns the layer the surface is showing.
func (c *Context) SelectedLayer() (graph.Layer, bool) {
	idx := c.SelectedLayerIndex()
	if idx < 0 {
		return graph.Layer{}, false
	}
	return c.document.Layer(idx)
}

// IsSelected reports whether obj is in the host selection.
func (c *Context) IsSelected(obj graph.Object) bool {
	if obj == nil || c.svc.Selection == nil {
		return false
	}
	return c.svc.Selection.Contains(obj)
}

// SelectionSnapshot copies the current selection.
func (c *Context) SelectionSnapshot() []graph.Object {
	if c.svc.Selection == nil {
		return nil
	}
	objs := c.svc.Selection.Objects()
	out := make([]graph.Object, len(objs))
	copy(out, objs)
	return out
}

// RestoreSelection replaces the host selection with objs.
func (c *Context) RestoreSelection(objs []graph.Object) {
	if c.svc.Selection == nil {
		return
	}
	c.svc.Selection.SetObjects(objs)
}

// SelectedStates returns the selected leaf states of the selected layer.
// With includeNested, states inside nested state machines are included.
func (c *Context) SelectedStates(includeNested bool) []*graph.State {
	layer, ok := c.SelectedLayer()
	if !ok || layer.StateMachine == nil {
		return nil
	}

	var out []*graph.State
	layer.StateMachine.Walk(func(m, _ *graph.StateMachine) bool {
		for _, cs := range m.States() {
			if cs.State != nil && c.IsSelected(cs.State) {
				out = append(out, cs.State)
			}
		}
		return includeNested
	})
	return out
}

// RebuildGraph asks the bound surface to rebuild its graph view.
func (c *Context) RebuildGraph(preserveSelection bool) error {
	if c.surface == nil {
		return ErrNoSurface
	}
	if c.rebuilder == nil {
		return ErrCapabilityUnavailable
	}
	return Guard("rebuild", func() { c.rebuilder.RebuildGraph(preserveSelection) })
}

// Undo returns the host undo service, or nil.
func (c *Context) Undo() host.UndoService {
	return c.svc.Undo
}

// MarkModified flags obj for saving.
func (c *Context) MarkModified(obj graph.Object) {
	if obj == nil || c.svc.Dirty == nil {
		return
	}
	c.svc.Dirty.MarkModified(obj)
}
