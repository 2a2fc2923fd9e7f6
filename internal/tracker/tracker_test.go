package tracker

import (
	"testing"
	"time"

	"github.com/dshills/graphnudge/internal/binding"
	"github.com/dshills/graphnudge/internal/engine/mover"
	"github.com/dshills/graphnudge/internal/graph"
	"github.com/dshills/graphnudge/internal/host"
	"github.com/dshills/graphnudge/internal/host/memhost"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	wb      *memhost.Workbench
	sel     *memhost.Selection
	ctx     *binding.Context
	clock   *fakeClock
	tracker *Tracker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		wb:    memhost.NewWorkbench(),
		sel:   memhost.NewSelection(),
		clock: &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	f.ctx = binding.New(host.Services{
		Surfaces:  f.wb,
		Focus:     f.wb,
		Documents: f.wb,
		Selection: f.sel,
		Dirty:     memhost.NewDirtySet(),
	}, nil)
	cfg := DefaultConfig()
	cfg.Now = f.clock.Now
	f.tracker = New(f.ctx, cfg, nil)
	return f
}

func newDoc(name string) (*graph.Document, *graph.StateMachine) {
	doc := graph.NewDocument(name)
	return doc, doc.AddLayer("Base Layer")
}

func TestMatches(t *testing.T) {
	tr := New(binding.New(host.Services{}, nil), DefaultConfig(), nil)
	tests := []struct {
		name string
		want bool
	}{
		{"statemachine.GraphEditor", true},
		{"GraphEditor", true},
		{"  graphEDITOR ", true},
		{"StateMachineWindow", true},
		{"graph", true},
		{"Inspector", false},
		{"statemachine.GraphEditor2", false},
		{"", false},
		{"   ", false},
	}
	for _, tt := range tests {
		if got := tr.Matches(tt.name); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	tr.SetAliases([]string{"AnimatorWindow"})
	if tr.Matches("GraphEditor") || !tr.Matches("animator") {
		t.Error("SetAliases not applied")
	}
	tr.SetAliases(nil)
	if !tr.Matches("GraphEditor") {
		t.Error("empty aliases should restore the defaults")
	}
}

func TestAttachResolvesDocument(t *testing.T) {
	f := newFixture(t)
	doc, _ := newDoc("Player")
	inspector := memhost.NewWindow("Inspector", nil)
	win := memhost.NewGraphWindow(doc, f.sel)
	f.wb.Open(inspector)
	f.wb.Open(win)

	var attached host.Surface
	f.tracker.SetListener(Listener{Attached: func(s host.Surface) { attached = s }})
	f.tracker.Tick()

	if f.ctx.Surface() != win {
		t.Fatalf("bound surface = %v, want graph window", f.ctx.Surface())
	}
	if attached != win {
		t.Error("Attached listener not called")
	}
	if f.ctx.Document() != doc {
		t.Error("document should resolve on attach")
	}
	if !f.ctx.CanRebuild() {
		t.Error("graph window rebuild capability not installed")
	}
	if f.tracker.Tracked() != 2 {
		t.Errorf("Tracked() = %d, want 2", f.tracker.Tracked())
	}
}

func TestLastDiscoveredWins(t *testing.T) {
	f := newFixture(t)
	docA, _ := newDoc("A")
	docB, _ := newDoc("B")
	a := memhost.NewGraphWindow(docA, f.sel)
	b := memhost.NewGraphWindow(docB, f.sel)
	f.wb.Open(a)
	f.wb.Open(b)

	f.tracker.Tick()
	if f.ctx.Surface() != b || f.ctx.Document() != docB {
		t.Errorf("bound to %v, want the last discovered window", f.ctx.Surface())
	}

	docC, _ := newDoc("C")
	c := memhost.NewGraphWindow(docC, f.sel)
	f.wb.Open(c)
	f.tracker.Tick()
	if f.ctx.Surface() != c {
		t.Error("a newly opened window should take over the binding")
	}
}

func TestBoundSurfaceClosed(t *testing.T) {
	f := newFixture(t)
	doc, _ := newDoc("Player")
	win := memhost.NewGraphWindow(doc, f.sel)
	other := memhost.NewWindow("Inspector", nil)
	f.wb.Open(win)
	f.wb.Open(other)
	f.tracker.Tick()

	var detached host.Surface
	var docChange [2]*graph.Document
	f.tracker.SetListener(Listener{
		Detached: func(s host.Surface) { detached = s },
		Document: func(old, doc *graph.Document) { docChange = [2]*graph.Document{old, doc} },
	})

	f.wb.Close(other)
	f.tracker.Tick()
	if f.ctx.Surface() != win {
		t.Fatal("closing an unrelated window cleared the binding")
	}

	f.wb.Close(win)
	f.tracker.Tick()
	if f.ctx.IsBound() || f.ctx.Document() != nil || f.ctx.CanRebuild() {
		t.Error("closing the bound window should clear surface, document and rebuild capability")
	}
	if detached != win {
		t.Error("Detached listener not called")
	}
	if docChange[0] != doc || docChange[1] != nil {
		t.Errorf("Document listener = %v", docChange)
	}

	f.wb.Open(win)
	f.tracker.Tick()
	if f.ctx.Surface() != win {
		t.Error("reopened window should be bound again")
	}
}

func TestOtherTargetSurfaceClosed(t *testing.T) {
	f := newFixture(t)
	docA, _ := newDoc("A")
	docB, _ := newDoc("B")
	a := memhost.NewGraphWindow(docA, f.sel)
	b := memhost.NewGraphWindow(docB, f.sel)
	f.wb.Open(a)
	f.wb.Open(b)
	f.tracker.Tick()
	if f.ctx.Surface() != b {
		t.Fatalf("bound to %v, want the last discovered window", f.ctx.Surface())
	}

	var detached host.Surface
	f.tracker.SetListener(Listener{Detached: func(s host.Surface) { detached = s }})

	f.wb.Close(a)
	f.tracker.Tick()
	if f.ctx.IsBound() || f.ctx.Document() != nil {
		t.Errorf("closing a target window left the binding on %v (doc %v)", f.ctx.Surface(), f.ctx.Document())
	}
	if detached != a {
		t.Errorf("Detached listener got %v, want the closed window", detached)
	}

	f.tracker.Tick()
	if f.ctx.IsBound() {
		t.Error("an already tracked window should not be bound again")
	}

	docC, _ := newDoc("C")
	c := memhost.NewGraphWindow(docC, f.sel)
	f.wb.Open(c)
	f.tracker.Tick()
	if f.ctx.Surface() != c || f.ctx.Document() != docC {
		t.Error("a newly opened window should be bound")
	}
}

func TestDocumentReloadAdopted(t *testing.T) {
	f := newFixture(t)
	oldDoc, oldRoot := newDoc("Player")
	oldState := oldRoot.AddState("Idle", graph.Vec2{X: 10, Y: 10})
	win := memhost.NewGraphWindow(oldDoc, f.sel)
	f.wb.Open(win)
	f.tracker.Tick()

	newDocument, newRoot := newDoc("Player")
	newState := newRoot.AddState("Idle", graph.Vec2{X: 10, Y: 10})
	win.Open(newDocument)

	f.clock.Advance(100 * time.Millisecond)
	f.tracker.Tick()
	if f.ctx.Document() != oldDoc {
		t.Fatal("document check ran before the poll interval")
	}

	f.clock.Advance(DefaultConfig().PollInterval)
	f.tracker.Tick()
	if f.ctx.Document() != newDocument {
		t.Fatal("reloaded document not adopted")
	}

	f.sel.SetObjects([]graph.Object{oldState, newState})
	engine := mover.New(f.ctx, nil)
	if _, err := engine.MoveSelected(graph.Vec2{X: 5}); err != nil {
		t.Fatal(err)
	}
	if p, _ := oldRoot.StatePosition(oldState); p != (graph.Vec2{X: 10, Y: 10}) {
		t.Errorf("stale document mutated: %v", p)
	}
	if p, _ := newRoot.StatePosition(newState); p != (graph.Vec2{X: 15, Y: 10}) {
		t.Errorf("new document state = %v, want (15, 10)", p)
	}
}

func TestNilDocumentThenResolved(t *testing.T) {
	f := newFixture(t)
	win := memhost.NewGraphWindow(nil, f.sel)
	f.wb.Open(win)
	f.tracker.Tick()

	if !f.ctx.IsBound() || f.ctx.Document() != nil {
		t.Fatal("window without a document should bind with no document")
	}

	doc, _ := newDoc("Player")
	win.Open(doc)
	f.clock.Advance(time.Second)
	f.tracker.Tick()
	if f.ctx.Document() != doc {
		t.Error("document resolved after a nil one should be adopted")
	}

	win.Open(nil)
	f.clock.Advance(time.Second)
	f.tracker.Tick()
	if f.ctx.Document() != nil || !f.ctx.IsBound() {
		t.Error("a closed document should clear the cache but keep the binding")
	}
}

func TestSurfaceWithoutRebuild(t *testing.T) {
	f := newFixture(t)
	doc, _ := newDoc("Player")
	f.wb.Open(memhost.NewWindow("StateMachineWindow", doc))
	f.tracker.Tick()

	if !f.ctx.IsBound() || f.ctx.Document() != doc {
		t.Fatal("surface without rebuild should still bind")
	}
	if f.ctx.CanRebuild() {
		t.Error("CanRebuild() = true for a surface without RebuildGraph")
	}
}

type panicEnumerator struct{}

func (panicEnumerator) Surfaces() []host.Surface { panic("window list unavailable") }

type panicSurface struct{}

func (panicSurface) TypeName() string { panic("type unavailable") }

type listEnumerator []host.Surface

func (l listEnumerator) Surfaces() []host.Surface { return l }

func TestHostPanics(t *testing.T) {
	ctx := binding.New(host.Services{Surfaces: panicEnumerator{}}, nil)
	New(ctx, DefaultConfig(), nil).Tick()
	if ctx.IsBound() {
		t.Error("failed enumeration bound a surface")
	}

	ctx = binding.New(host.Services{Surfaces: listEnumerator{panicSurface{}}}, nil)
	New(ctx, DefaultConfig(), nil).Tick()
	if ctx.IsBound() {
		t.Error("surface with failing type name was bound")
	}
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	doc, _ := newDoc("Player")
	win := memhost.NewGraphWindow(doc, f.sel)
	f.wb.Open(win)
	f.tracker.Tick()

	f.tracker.Reset()
	if f.ctx.IsBound() || f.tracker.Tracked() != 0 {
		t.Fatal("Reset should clear the binding and tracked set")
	}
	f.tracker.Tick()
	if f.ctx.Surface() != win || f.ctx.Document() != doc {
		t.Error("surfaces should be rediscovered after Reset")
	}
}
