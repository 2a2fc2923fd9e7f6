package memhost

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/graphnudge/internal/graph"
)

// DirtySet records objects marked modified.
type DirtySet struct {
	mu    sync.Mutex
	marks map[uuid.UUID]int
}

// NewDirtySet creates an empty dirty set.
func NewDirtySet() *DirtySet {
	return &DirtySet{marks: make(map[uuid.UUID]int)}
}

// MarkModified flags obj.
func (d *DirtySet) MarkModified(obj graph.Object) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.marks[obj.ID()]++
}

// IsDirty reports whether obj was marked.
func (d *DirtySet) IsDirty(obj graph.Object) bool {
	return d.Count(obj) > 0
}

// Count returns how many times obj was marked.
func (d *DirtySet) Count(obj graph.Object) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.marks[obj.ID()]
}

// Len returns the number of distinct dirty objects.
func (d *DirtySet) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.marks)
}

// Clear forgets all marks, as after a save.
func (d *DirtySet) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.marks = make(map[uuid.UUID]int)
}
