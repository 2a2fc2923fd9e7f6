// Package memhost is an in-memory implementation of the host capabilities:
// a workbench of windows with focus, an ordered selection, a dirty set and a
// graph window that caches pseudo-node anchors until it is rebuilt.
//
// The terminal front-end runs on it, and package tests use it as their host.
package memhost

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/graphnudge/internal/graph"
)

// Selection is an ordered set of objects.
type Selection struct {
	mu   sync.RWMutex
	objs []graph.Object
}

// NewSelection creates a selection holding objs.
func NewSelection(objs ...graph.Object) *Selection {
	s := &Selection{}
	s.SetObjects(objs)
	return s
}

// Objects returns a copy of the selection in order.
func (s *Selection) Objects() []graph.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]graph.Object, len(s.objs))
	copy(out, s.objs)
	return out
}

// SetObjects replaces the selection, dropping duplicates and nils.
func (s *Selection) SetObjects(objs []graph.Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objs = s.objs[:0:0]
	seen := make(map[uuid.UUID]bool, len(objs))
	for _, o := range objs {
		if o == nil || seen[o.ID()] {
			continue
		}
		seen[o.ID()] = true
		s.objs = append(s.objs, o)
	}
}

// Contains reports whether obj is selected.
func (s *Selection) Contains(obj graph.Object) bool {
	if obj == nil {
		return false
	}
	id := obj.ID()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.objs {
		if o.ID() == id {
			return true
		}
	}
	return false
}

// Toggle adds obj if absent and removes it otherwise.
func (s *Selection) Toggle(obj graph.Object) {
	if s.Contains(obj) {
		s.Remove(obj)
		return
	}
	s.mu.Lock()
	s.objs = append(s.objs, obj)
	s.mu.Unlock()
}

// Remove deletes obj from the selection.
func (s *Selection) Remove(obj graph.Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.objs[:0]
	for _, o := range s.objs {
		if o.ID() != obj.ID() {
			out = append(out, o)
		}
	}
	s.objs = out
}

// Len returns the number of selected objects.
func (s *Selection) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objs)
}
