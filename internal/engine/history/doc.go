// Package history provides the undo/redo stack used by the bundled host.
//
// It follows the record-before-mutate model: before changing an object the
// caller hands it to RecordObject, which stores a memento of its current
// state. Records are filed under the current group ID; the host advances the
// group once per input event, so by default every event becomes its own undo
// entry.
//
// # Groups
//
// A caller that wants several events to undo as one remembers the group ID
// at the start and collapses afterwards:
//
//	start := h.CurrentGroup()
//	h.SetCurrentGroupName("Move State Machine Nodes")
//	// ... records over many events ...
//	h.CollapseFrom(start)
//
// # Undo and Redo
//
// Undo restores every recorded object of the top entry, newest record
// first, after capturing their present state so Redo can reapply it.
package history
