package history

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/graphnudge/internal/graph"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// record is one pre-mutation snapshot.
type record struct {
	target graph.Snapshotter
	label  string
	before graph.Memento
	after  graph.Memento
}

// undoEntry is one user-visible undo step.
type undoEntry struct {
	group     int
	name      string
	records   []*record
	timestamp time.Time
}

func (e *undoEntry) has(id uuid.UUID) bool {
	for _, r := range e.records {
		if r.target.ID() == id {
			return true
		}
	}
	return false
}

// OperationInfo describes an undo entry.
type OperationInfo struct {
	Description string
	Group       int
	Objects     int
	Timestamp   time.Time
}

// History manages undo/redo state for a document session.
type History struct {
	mu sync.Mutex

	undoStack []*undoEntry
	redoStack []*undoEntry

	group      int
	groupNames map[int]string

	maxEntries int
}

// NewHistory creates a new history manager.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = 1000 // Default
	}
	return &History{
		maxEntries: maxEntries,
		groupNames: make(map[int]string),
	}
}

// CurrentGroup returns the ID records are currently filed under.
func (h *History) CurrentGroup() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.group
}

// IncrementCurrentGroup closes the current group. The host calls it once per
// input event.
func (h *History) IncrementCurrentGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.group++
}

// SetCurrentGroupName labels the current group.
func (h *History) SetCurrentGroupName(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.groupNames[h.group] = name
	if top := h.topLocked(); top != nil && top.group == h.group {
		top.name = name
	}
}

// RecordObject snapshots obj before a mutation. Only the first record of an
// object within a group is kept, so undo returns to the state before the
// group began. Recording clears the redo stack.
func (h *History) RecordObject(obj graph.Snapshotter, label string) {
	if obj == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	top := h.topLocked()
	if top == nil || top.group != h.group {
		name := h.groupNames[h.group]
		if name == "" {
			name = label
		}
		top = &undoEntry{group: h.group, name: name, timestamp: time.Now()}
		h.pushLocked(top)
	}

	h.redoStack = nil

	if top.has(obj.ID()) {
		return
	}
	top.records = append(top.records, &record{
		target: obj,
		label:  label,
		before: obj.Snapshot(),
	})
}

// CollapseFrom merges every entry whose group is at or after groupID into a
// single entry named after the group that started the run.
func (h *History) CollapseFrom(groupID int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	i := len(h.undoStack)
	for i > 0 && h.undoStack[i-1].group >= groupID {
		i--
	}
	run := h.undoStack[i:]
	if len(run) <= 1 {
		if len(run) == 1 {
			if name := h.groupNames[groupID]; name != "" {
				run[0].name = name
			}
		}
		return
	}

	merged := &undoEntry{
		group:     run[0].group,
		name:      run[0].name,
		timestamp: run[len(run)-1].timestamp,
	}
	if name := h.groupNames[groupID]; name != "" {
		merged.name = name
	}
	for _, e := range run {
		for _, r := range e.records {
			if !merged.has(r.target.ID()) {
				merged.records = append(merged.records, r)
			}
		}
	}

	h.undoStack = append(h.undoStack[:i], merged)
}

func (h *History) topLocked() *undoEntry {
	if len(h.undoStack) == 0 {
		return nil
	}
	return h.undoStack[len(h.undoStack)-1]
}

func (h *History) pushLocked(e *undoEntry) {
	h.undoStack = append(h.undoStack, e)

	// Enforce max entries
	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverts the last entry.
func (h *History) Undo() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	e := h.topLocked()
	if e == nil {
		return ErrNothingToUndo
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	for i := len(e.records) - 1; i >= 0; i-- {
		r := e.records[i]
		r.after = r.target.Snapshot()
		r.target.Restore(r.before)
	}

	h.redoStack = append(h.redoStack, e)
	// Later records must not join an entry that is no longer on top.
	h.group++
	return nil
}

// Redo reapplies the last undone entry.
func (h *History) Redo() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	for _, r := range e.records {
		if r.after != nil {
			r.target.Restore(r.after)
		}
	}

	h.pushLocked(e)
	h.group++
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo entries.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// UndoInfo describes the undo stack, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]OperationInfo, len(h.undoStack))
	for i, e := range h.undoStack {
		result[i] = infoOf(e)
	}
	return result
}

// PeekUndo describes the next undo entry without removing it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e := h.topLocked()
	if e == nil {
		return OperationInfo{}, false
	}
	return infoOf(e), true
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
	h.groupNames = make(map[int]string)
}

func infoOf(e *undoEntry) OperationInfo {
	return OperationInfo{
		Description: e.name,
		Group:       e.group,
		Objects:     len(e.records),
		Timestamp:   e.timestamp,
	}
}
