package graph

import (
	"slices"

	"github.com/google/uuid"
)

// Layer is one independently addressable root state machine.
type Layer struct {
	Name         string
	StateMachine *StateMachine
}

// Document is a state-machine asset made of layers.
type Document struct {
	id     uuid.UUID
	name   string
	layers []Layer
}

// NewDocument creates an empty document.
func NewDocument(name string) *Document {
	return &Document{id: uuid.New(), name: name}
}

// ID returns the document identity.
func (d *Document) ID() uuid.UUID { return d.id }

// Name returns the document name.
func (d *Document) Name() string { return d.name }

// Layers returns a copy of the layer list.
func (d *Document) Layers() []Layer {
	return slices.Clone(d.layers)
}

// LayerCount returns the number of layers.
func (d *Document) LayerCount() int {
	return len(d.layers)
}

// Layer returns the layer at index i.
func (d *Document) Layer(i int) (Layer, bool) {
	if i < 0 || i >= len(d.layers) {
		return Layer{}, false
	}
	return d.layers[i], true
}

// AddLayer appends a layer with a fresh root state machine named after it.
func (d *Document) AddLayer(name string) *StateMachine {
	root := NewStateMachine(name)
	d.layers = append(d.layers, Layer{Name: name, StateMachine: root})
	return root
}

// Find returns the object with the given ID anywhere in the document.
func (d *Document) Find(id uuid.UUID) (Object, bool) {
	var found Object
	for _, l := range d.layers {
		if l.StateMachine == nil {
			continue
		}
		l.StateMachine.Walk(func(m, _ *StateMachine) bool {
			if found != nil {
				return false
			}
			if m.id == id {
				found = m
				return false
			}
			for _, p := range m.markers {
				if p.id == id {
					found = p
					return false
				}
			}
			for _, cs := range m.states {
				if cs.State != nil && cs.State.id == id {
					found = cs.State
					return false
				}
			}
			return true
		})
		if found != nil {
			return found, true
		}
	}
	return nil, false
}
