package memhost

import (
	"slices"
	"sync"

	"github.com/dshills/graphnudge/internal/graph"
	"github.com/dshills/graphnudge/internal/host"
)

// Workbench is the set of open windows and which one has focus.
type Workbench struct {
	mu      sync.RWMutex
	windows []host.Surface
	focused host.Surface
}

// NewWorkbench creates an empty workbench.
func NewWorkbench() *Workbench {
	return &Workbench{}
}

// Open adds a window and focuses it.
func (wb *Workbench) Open(s host.Surface) {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	if !slices.Contains(wb.windows, s) {
		wb.windows = append(wb.windows, s)
	}
	wb.focused = s
}

// Close removes a window. Focus is lost if it was focused.
func (wb *Workbench) Close(s host.Surface) {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	wb.windows = slices.DeleteFunc(wb.windows, func(w host.Surface) bool { return w == s })
	if wb.focused == s {
		wb.focused = nil
	}
}

// Focus gives focus to s, or removes focus from every window if s is nil.
func (wb *Workbench) Focus(s host.Surface) {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	wb.focused = s
}

// Surfaces lists open windows.
func (wb *Workbench) Surfaces() []host.Surface {
	wb.mu.RLock()
	defer wb.mu.RUnlock()
	return slices.Clone(wb.windows)
}

// HasFocus reports whether s is focused.
func (wb *Workbench) HasFocus(s host.Surface) bool {
	wb.mu.RLock()
	defer wb.mu.RUnlock()
	return s != nil && wb.focused == s
}

// ResolveDocument returns the document shown by s.
func (wb *Workbench) ResolveDocument(s host.Surface) *graph.Document {
	switch w := s.(type) {
	case *GraphWindow:
		return w.Document()
	case *Window:
		return w.Document()
	default:
		return nil
	}
}
