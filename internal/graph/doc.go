// Package graph defines the state-machine document model that node
// movement operates on.
//
// A Document holds Layers; each Layer owns exactly one root StateMachine.
// A StateMachine contains leaf states and child state machines, each placed
// at a 2D position stored on the parent's child record, plus four pseudo-node
// positions (Entry, Exit, Any State and, for nested machines, the link back to
// the parent).
//
// Every selectable element implements Object and is identified by a UUID so
// that selection sets and undo records can refer to it without holding
// positional indices.
package graph
