// Package input turns held arrow keys into node movement.
//
// The Coordinator is registered in the host's input pipeline. It keeps the
// set of held movement keys, derives a movement vector from them, throttles
// how often the vector is applied, and owns the undo group of the current
// gesture.
//
// # Gestures
//
// A gesture starts with the first accepted move and ends when the last
// tracked key is released. Every move in between is filed under one undo
// group, which is collapsed into a single entry when the gesture ends:
//
//	Idle --(first accepted move)--> Dragging --(last key up)--> Idle
//
// Leaving Dragging flushes the movement engine, which marks the document
// modified. With FlushOnFocusLoss set, Poll also ends a gesture whose
// surface lost focus before any key-up arrived.
//
// # Tracked Keys
//
// The four arrow keys and Alt. Opposing arrows cancel on their axis. Up is
// negative Y, matching document space. Alt moves nothing by itself but keeps
// a gesture open while it is held.
//
// # Usage
//
//	coord := input.NewCoordinator(ctx, engine, store, input.DefaultConfig(), log)
//	coord.Attach(pipeline)
//
//	// on every host tick
//	coord.Poll()
package input
