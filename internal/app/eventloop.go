package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/graphnudge/internal/graph"
	"github.com/dshills/graphnudge/internal/host"
	"github.com/dshills/graphnudge/internal/input"
	"github.com/dshills/graphnudge/internal/input/key"
)

// frameTime is the tick and redraw interval.
const frameTime = time.Second / 60

// Run opens the terminal and runs the event loop until quit or Shutdown.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	screen := app.opts.Screen
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return &InitError{Component: "terminal", Err: err}
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	screen.EnableFocus()
	app.screen = screen
	defer screen.Fini()

	err := app.eventLoop(app.startInputPolling(screen))
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// Shutdown stops a running event loop.
func (app *Application) Shutdown() {
	if !app.running.Load() {
		return
	}
	select {
	case <-app.done:
	default:
		close(app.done)
	}
}

func (app *Application) eventLoop(events <-chan tcell.Event) error {
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	app.draw()
	for {
		select {
		case <-app.done:
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.HandleTerminalEvent(ev); err != nil {
				return err
			}

		case <-app.reloads:
			app.reloadConfig()

		case <-ticker.C:
			app.Tick()
			app.draw()
		}
	}
}

// startInputPolling reads terminal events on a goroutine. PollEvent blocks
// until Fini, which makes it return nil.
func (app *Application) startInputPolling(screen tcell.Screen) <-chan tcell.Event {
	events := make(chan tcell.Event, 100)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-app.done:
				return
			}
		}
	}()
	return events
}

// HandleTerminalEvent processes one terminal event. It returns ErrQuit
// when the user asked to exit.
func (app *Application) HandleTerminalEvent(ev tcell.Event) error {
	switch e := ev.(type) {
	case *tcell.EventKey:
		for _, ke := range app.keys.translateKey(e, app.now()) {
			if err := app.DispatchKey(ke); err != nil {
				return err
			}
		}
	case *tcell.EventFocus:
		app.SetTerminalFocus(e.Focused)
	case *tcell.EventResize:
		if app.screen != nil {
			app.screen.Sync()
		}
	}
	return nil
}

// SetTerminalFocus moves host focus away from the graph editor while the
// terminal is unfocused. Held keys are released since their releases
// will never be reported.
func (app *Application) SetTerminalFocus(focused bool) {
	if focused {
		app.workbench.Focus(app.window)
		return
	}
	app.releaseHeldKeys()
	app.workbench.Focus(app.inspector)
	app.coordinator.Poll()
}

// releaseHeldKeys dispatches releases for every held key. It must run
// while the graph editor still has focus, or the coordinator never sees
// them.
func (app *Application) releaseHeldKeys() {
	for _, ke := range app.keys.releaseAll(app.now()) {
		_ = app.DispatchKey(ke)
	}
}

// Tick runs the per-frame work: binding upkeep, synthetic key releases and
// the coordinator's focus check.
func (app *Application) Tick() {
	app.tracker.Tick()
	for _, ke := range app.keys.expire(app.now()) {
		_ = app.DispatchKey(ke)
	}
	app.coordinator.Poll()
}

// DispatchKey delivers one key transition as a host input event. Every
// event opens a new undo group. Key presses no handler used run the
// host's own shortcuts.
func (app *Application) DispatchKey(ke key.Event) error {
	app.history.IncrementCurrentGroup()
	ev := host.KeyEvent(ke)
	if app.pipeline.Dispatch(ev) || !ke.IsDown() {
		return nil
	}
	if input.IsTracked(ke.Key) {
		return nil
	}
	return app.command(ke)
}

// command runs a host shortcut.
func (app *Application) command(ke key.Event) error {
	switch ke.Key {
	case key.KeyEscape:
		return ErrQuit
	case key.KeyTab:
		if ke.Modifiers.Has(key.ModShift) {
			app.moveCursor(-1)
		} else {
			app.moveCursor(1)
		}
		return nil
	case key.KeySpace:
		app.toggleAtCursor()
		return nil
	case key.KeyRune:
	default:
		return nil
	}

	if ke.Modifiers.Has(key.ModCtrl) && ke.Rune == 'c' {
		return ErrQuit
	}

	switch ke.Rune {
	case 'q':
		return ErrQuit
	case 'a':
		app.selectAll()
	case 'c':
		app.selection.SetObjects(nil)
	case 'u':
		app.undo()
	case 'r':
		app.redo()
	case '+', '=':
		app.store.SetMoveStep(app.store.MoveStep() * 2)
	case '-':
		app.store.SetMoveStep(app.store.MoveStep() / 2)
	case 's':
		app.save()
	case 'l':
		app.nextLayer()
	case 'f':
		app.toggleFocus()
	default:
		app.callKeyHook(string(ke.Rune))
	}
	return nil
}

func (app *Application) moveCursor(delta int) {
	n := len(app.nodes())
	if n == 0 {
		app.cursor = 0
		return
	}
	app.cursor = ((app.cursor+delta)%n + n) % n
}

func (app *Application) toggleAtCursor() {
	nodes := app.nodes()
	if app.cursor < 0 || app.cursor >= len(nodes) {
		return
	}
	app.selection.Toggle(nodes[app.cursor].obj)
}

// selectAll selects every state and nested state machine of the layer.
func (app *Application) selectAll() {
	var objs []graph.Object
	for _, n := range app.nodes() {
		if _, pseudo := n.obj.(*graph.PseudoNode); !pseudo {
			objs = append(objs, n.obj)
		}
	}
	app.selection.SetObjects(objs)
}

func (app *Application) undo() {
	if app.coordinator.State() == input.StateDragging {
		app.setStatus("cannot undo while moving")
		return
	}
	info, ok := app.history.PeekUndo()
	if !ok {
		app.setStatus("nothing to undo")
		return
	}
	if err := app.history.Undo(); err != nil {
		app.setStatus("undo: " + err.Error())
		return
	}
	app.afterHistoryChange()
	app.setStatus("undid " + info.Description)
}

func (app *Application) redo() {
	if app.coordinator.State() == input.StateDragging {
		app.setStatus("cannot redo while moving")
		return
	}
	if err := app.history.Redo(); err != nil {
		app.setStatus("redo: " + err.Error())
		return
	}
	app.afterHistoryChange()
	app.setStatus("redone")
}

// afterHistoryChange refreshes the view after snapshots were restored.
func (app *Application) afterHistoryChange() {
	if layer, ok := app.binding.SelectedLayer(); ok {
		app.binding.MarkModified(layer.StateMachine)
	}
	if app.binding.CanRebuild() {
		if err := app.binding.RebuildGraph(true); err != nil {
			app.log.Error("rebuild after undo: %v", err)
		}
	}
}

func (app *Application) save() {
	if err := SaveDocument(app.docPath, app.document); err != nil {
		app.setStatus("save failed: " + err.Error())
		app.log.Error("%v", err)
		return
	}
	app.dirty.Clear()
	app.setStatus("saved " + app.docPath)
}

func (app *Application) nextLayer() {
	n := app.document.LayerCount()
	if n == 0 {
		return
	}
	app.window.SelectLayer((app.window.SelectedLayerIndex() + 1) % n)
	app.cursor = 0
	if layer, ok := app.document.Layer(app.window.SelectedLayerIndex()); ok {
		app.setStatus("layer " + layer.Name)
	}
}

func (app *Application) toggleFocus() {
	if app.workbench.HasFocus(app.window) {
		app.releaseHeldKeys()
		app.workbench.Focus(app.inspector)
		app.setStatus("focus: inspector")
		return
	}
	app.workbench.Focus(app.window)
	app.setStatus("focus: graph editor")
}

// callKeyHook passes an unbound key to the script's on_key function.
func (app *Application) callKeyHook(name string) {
	if !app.script.HasFunction("on_key") {
		return
	}
	if _, err := app.script.Call("on_key", glua.LString(name)); err != nil {
		app.log.Warn("on_key(%q): %v", name, err)
		app.setStatus(fmt.Sprintf("script error: %v", err))
	}
}
