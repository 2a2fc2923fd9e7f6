package app

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/graphnudge/internal/graph"
)

const playerYAML = `
name: Player
layers:
  - name: Base Layer
    states:
      - {name: Idle, position: {x: 300, y: 100}}
      - {name: Run, position: {x: 520, y: 100}}
    machines:
      - name: Combat
        position: {x: 300, y: 250}
        states:
          - {name: Attack, position: {x: 10, y: 20}}
        parent: {x: 700, y: 30}
    entry: {x: 40, y: 90}
  - name: Upper Body
`

func findState(sm *graph.StateMachine, name string) (*graph.State, graph.Vec2, bool) {
	var (
		found *graph.State
		pos   graph.Vec2
	)
	sm.Walk(func(m, _ *graph.StateMachine) bool {
		for _, cs := range m.States() {
			if cs.State != nil && cs.State.Name() == name {
				found, pos = cs.State, cs.Position
				return false
			}
		}
		return found == nil
	})
	return found, pos, found != nil
}

func TestDecodeDocument(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(playerYAML), "fallback")
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if doc.Name() != "Player" {
		t.Errorf("Name = %q", doc.Name())
	}
	if doc.LayerCount() != 2 {
		t.Fatalf("LayerCount = %d, want 2", doc.LayerCount())
	}

	base, _ := doc.Layer(0)
	if _, pos, ok := findState(base.StateMachine, "Run"); !ok || pos != (graph.Vec2{X: 520, Y: 100}) {
		t.Errorf("Run at %v (found %v)", pos, ok)
	}
	if _, pos, ok := findState(base.StateMachine, "Attack"); !ok || pos != (graph.Vec2{X: 10, Y: 20}) {
		t.Errorf("Attack at %v (found %v)", pos, ok)
	}
	if got := base.StateMachine.PseudoPosition(graph.PseudoEntry); got != (graph.Vec2{X: 40, Y: 90}) {
		t.Errorf("entry at %v", got)
	}

	machines := base.StateMachine.StateMachines()
	if len(machines) != 1 {
		t.Fatalf("machines = %d, want 1", len(machines))
	}
	combat := machines[0]
	if combat.Position != (graph.Vec2{X: 300, Y: 250}) {
		t.Errorf("Combat at %v", combat.Position)
	}
	if got := combat.StateMachine.PseudoPosition(graph.PseudoParent); got != (graph.Vec2{X: 700, Y: 30}) {
		t.Errorf("Combat parent node at %v", got)
	}
	// Unset pseudo positions keep the default layout.
	if got, want := combat.StateMachine.PseudoPosition(graph.PseudoExit), graph.NewStateMachine("x").PseudoPosition(graph.PseudoExit); got != want {
		t.Errorf("exit at %v, want default %v", got, want)
	}
}

func TestDecodeDocumentErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad yaml", "layers: [ {"},
		{"unnamed state", "layers:\n  - name: L\n    states:\n      - {position: {x: 1, y: 1}}\n"},
		{"unnamed machine", "layers:\n  - name: L\n    machines:\n      - {position: {x: 1, y: 1}}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeDocument(strings.NewReader(tt.src), "x"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDecodeEmptyDocument(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(""), "empty")
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if doc.Name() != "empty" || doc.LayerCount() != 0 {
		t.Errorf("got %q with %d layers", doc.Name(), doc.LayerCount())
	}
}

func TestEncodeDecodePreservesLayout(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(playerYAML), "x")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := EncodeDocument(&buf, doc); err != nil {
		t.Fatalf("EncodeDocument: %v", err)
	}
	again, err := DecodeDocument(&buf, "x")
	if err != nil {
		t.Fatalf("decoding encoded document: %v", err)
	}

	for i := 0; i < doc.LayerCount(); i++ {
		a, _ := doc.Layer(i)
		b, _ := again.Layer(i)
		if a.Name != b.Name {
			t.Errorf("layer %d name %q != %q", i, b.Name, a.Name)
		}
		for _, kind := range []graph.PseudoKind{graph.PseudoEntry, graph.PseudoExit, graph.PseudoAnyState} {
			if a.StateMachine.PseudoPosition(kind) != b.StateMachine.PseudoPosition(kind) {
				t.Errorf("layer %d %s moved", i, kind)
			}
		}
	}
	base, _ := again.Layer(0)
	if _, pos, _ := findState(base.StateMachine, "Attack"); pos != (graph.Vec2{X: 10, Y: 20}) {
		t.Errorf("Attack at %v after round trip", pos)
	}
}

func TestLoadAndSaveDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "player.yaml")
	if err := os.WriteFile(path, []byte(playerYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	base, _ := doc.Layer(0)
	base.StateMachine.AddState("Jump", graph.Vec2{X: 1, Y: 2})

	if err := SaveDocument(path, doc); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, fs.ErrNotExist) {
		t.Error("temporary file left behind")
	}

	reloaded, err := LoadDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	rb, _ := reloaded.Layer(0)
	if _, pos, ok := findState(rb.StateMachine, "Jump"); !ok || pos != (graph.Vec2{X: 1, Y: 2}) {
		t.Errorf("Jump at %v (found %v)", pos, ok)
	}
}

func TestLoadDocumentNameFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enemy.yml")
	if err := os.WriteFile(path, []byte("layers:\n  - name: Base\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Name() != "enemy" {
		t.Errorf("Name = %q, want enemy", doc.Name())
	}
}

func TestLoadDocumentErrors(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "missing.yaml"))
	var fe *FileError
	if !errors.As(err, &fe) || fe.Op != "open" {
		t.Fatalf("err = %v, want open FileError", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("FileError should unwrap to fs.ErrNotExist")
	}

	if err := SaveDocument("", SampleDocument()); !errors.Is(err, ErrNoDocumentPath) {
		t.Errorf("err = %v, want ErrNoDocumentPath", err)
	}
}
