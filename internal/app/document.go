package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/graphnudge/internal/graph"
)

// Document files are YAML:
//
//	name: Player
//	layers:
//	  - name: Base Layer
//	    states:
//	      - {name: Idle, position: {x: 300, y: 100}}
//	    machines:
//	      - name: Combat
//	        position: {x: 300, y: 250}
//	        states:
//	          - {name: Attack, position: {x: 300, y: 100}}
//	        parent: {x: 800, y: 20}
//	    entry: {x: 50, y: 120}
//
// Pseudo-node positions are optional and default to the standard layout.

type documentFile struct {
	Name   string        `yaml:"name"`
	Layers []machineFile `yaml:"layers"`
}

type machineFile struct {
	Name     string        `yaml:"name"`
	Position *pointFile    `yaml:"position,omitempty"`
	States   []stateFile   `yaml:"states,omitempty"`
	Machines []machineFile `yaml:"machines,omitempty"`
	Entry    *pointFile    `yaml:"entry,omitempty"`
	Exit     *pointFile    `yaml:"exit,omitempty"`
	AnyState *pointFile    `yaml:"any_state,omitempty"`
	Parent   *pointFile    `yaml:"parent,omitempty"`
}

type stateFile struct {
	Name     string    `yaml:"name"`
	Position pointFile `yaml:"position"`
}

type pointFile struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p *pointFile) vec() graph.Vec2 {
	if p == nil {
		return graph.Vec2{}
	}
	return graph.Vec2{X: p.X, Y: p.Y}
}

func pointOf(v graph.Vec2) *pointFile {
	return &pointFile{X: v.X, Y: v.Y}
}

// LoadDocument reads a document file.
func LoadDocument(path string) (*graph.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Op: "open", Path: path, Err: err}
	}
	doc, err := DecodeDocument(bytes.NewReader(data), documentName(path))
	if err != nil {
		return nil, &FileError{Op: "decode", Path: path, Err: err}
	}
	return doc, nil
}

// DecodeDocument parses a document. fallbackName is used when the file
// does not name the document.
func DecodeDocument(r io.Reader, fallbackName string) (*graph.Document, error) {
	var f documentFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	name := f.Name
	if name == "" {
		name = fallbackName
	}
	doc := graph.NewDocument(name)
	for i, lf := range f.Layers {
		layerName := lf.Name
		if layerName == "" {
			layerName = fmt.Sprintf("Layer %d", i)
		}
		if err := fillMachine(doc.AddLayer(layerName), lf, true); err != nil {
			return nil, fmt.Errorf("layer %q: %w", layerName, err)
		}
	}
	return doc, nil
}

func fillMachine(sm *graph.StateMachine, f machineFile, root bool) error {
	for _, s := range f.States {
		if s.Name == "" {
			return errors.New("state without a name")
		}
		sm.AddState(s.Name, s.Position.vec())
	}
	for _, mf := range f.Machines {
		if mf.Name == "" {
			return errors.New("state machine without a name")
		}
		child := sm.AddStateMachine(mf.Name, mf.Position.vec())
		if err := fillMachine(child, mf, false); err != nil {
			return fmt.Errorf("%s: %w", mf.Name, err)
		}
	}

	pseudo := map[graph.PseudoKind]*pointFile{
		graph.PseudoEntry:    f.Entry,
		graph.PseudoExit:     f.Exit,
		graph.PseudoAnyState: f.AnyState,
	}
	if !root {
		pseudo[graph.PseudoParent] = f.Parent
	}
	for kind, p := range pseudo {
		if p != nil {
			sm.SetPseudoPosition(kind, p.vec())
		}
	}
	return nil
}

// EncodeDocument writes doc in the document file format.
func EncodeDocument(w io.Writer, doc *graph.Document) error {
	f := documentFile{Name: doc.Name()}
	for _, l := range doc.Layers() {
		if l.StateMachine == nil {
			continue
		}
		mf := encodeMachine(l.StateMachine, true)
		mf.Name = l.Name
		f.Layers = append(f.Layers, mf)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return err
	}
	return enc.Close()
}

func encodeMachine(sm *graph.StateMachine, root bool) machineFile {
	mf := machineFile{
		Name:     sm.Name(),
		Entry:    pointOf(sm.PseudoPosition(graph.PseudoEntry)),
		Exit:     pointOf(sm.PseudoPosition(graph.PseudoExit)),
		AnyState: pointOf(sm.PseudoPosition(graph.PseudoAnyState)),
	}
	if !root {
		mf.Parent = pointOf(sm.PseudoPosition(graph.PseudoParent))
	}
	for _, cs := range sm.States() {
		if cs.State == nil {
			continue
		}
		mf.States = append(mf.States, stateFile{Name: cs.State.Name(), Position: *pointOf(cs.Position)})
	}
	for _, cm := range sm.StateMachines() {
		if cm.StateMachine == nil {
			continue
		}
		child := encodeMachine(cm.StateMachine, false)
		child.Position = pointOf(cm.Position)
		mf.Machines = append(mf.Machines, child)
	}
	return mf
}

// SaveDocument writes doc to path through a temporary file.
func SaveDocument(path string, doc *graph.Document) error {
	if path == "" {
		return ErrNoDocumentPath
	}
	var buf bytes.Buffer
	if err := EncodeDocument(&buf, doc); err != nil {
		return &FileError{Op: "save", Path: path, Err: err}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return &FileError{Op: "save", Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &FileError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// SampleDocument builds the document shown when no file is given.
func SampleDocument() *graph.Document {
	doc := graph.NewDocument("Sample")
	base := doc.AddLayer("Base Layer")
	base.AddState("Idle", graph.Vec2{X: 300, Y: 100})
	base.AddState("Walk", graph.Vec2{X: 300, Y: 180})
	base.AddState("Run", graph.Vec2{X: 520, Y: 180})
	combat := base.AddStateMachine("Combat", graph.Vec2{X: 520, Y: 100})
	combat.AddState("Attack", graph.Vec2{X: 300, Y: 100})
	combat.AddState("Block", graph.Vec2{X: 300, Y: 180})

	upper := doc.AddLayer("Upper Body")
	upper.AddState("Aim", graph.Vec2{X: 300, Y: 100})
	return doc
}

func documentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
