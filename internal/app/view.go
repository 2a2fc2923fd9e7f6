package app

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/graphnudge/internal/graph"
)

// viewNode is one row of the node list.
type viewNode struct {
	obj   graph.Object
	label string
	pos   graph.Vec2
	depth int
}

// nodes lists the selectable nodes of the shown layer in walk order.
func (app *Application) nodes() []viewNode {
	layer, ok := app.document.Layer(app.window.SelectedLayerIndex())
	if !ok || layer.StateMachine == nil {
		return nil
	}

	depth := map[*graph.StateMachine]int{layer.StateMachine: 0}
	var out []viewNode
	layer.StateMachine.Walk(func(sm, parent *graph.StateMachine) bool {
		d := 0
		if parent != nil {
			d = depth[parent] + 1
			depth[sm] = d
			pos, _ := parent.StateMachinePosition(sm)
			out = append(out, viewNode{obj: sm, label: "[" + sm.Name() + "]", pos: pos, depth: d - 1})
		}
		for _, cs := range sm.States() {
			if cs.State != nil {
				out = append(out, viewNode{obj: cs.State, label: cs.State.Name(), pos: cs.Position, depth: d})
			}
		}
		for _, kind := range graph.PseudoKinds {
			if kind == graph.PseudoParent && parent == nil {
				continue
			}
			out = append(out, viewNode{
				obj:   sm.Pseudo(kind),
				label: "<" + kind.String() + ">",
				pos:   sm.PseudoPosition(kind),
				depth: d,
			})
		}
		return true
	})
	return out
}

// lines renders the screen content as text.
func (app *Application) lines() []string {
	layerName := "-"
	if layer, ok := app.document.Layer(app.window.SelectedLayerIndex()); ok {
		layerName = layer.Name
	}
	bound := "unbound"
	if app.binding.IsBound() {
		bound = "bound"
		if !app.binding.IsFocused() {
			bound += ", unfocused"
		}
	}

	out := []string{
		fmt.Sprintf("%s  layer %d/%d %s  (%s)", app.document.Name(),
			app.window.SelectedLayerIndex()+1, app.document.LayerCount(), layerName, bound),
		"",
	}
	for i, n := range app.nodes() {
		cursor := " "
		if i == app.cursor {
			cursor = ">"
		}
		mark := " "
		if app.selection.Contains(n.obj) {
			mark = "*"
		}
		out = append(out, fmt.Sprintf("%s%s %s%-24s %8.1f %8.1f",
			cursor, mark, strings.Repeat("  ", n.depth), n.label, n.pos.X, n.pos.Y))
	}

	undo := "-"
	if info, ok := app.history.PeekUndo(); ok {
		undo = info.Description
	}
	out = append(out, "",
		fmt.Sprintf("step %g  %s  held %v  undo %d (%s)  dirty %d",
			app.store.MoveStep(), app.coordinator.State(), app.coordinator.HeldKeys(),
			app.history.UndoCount(), undo, app.dirty.Len()),
		app.status,
		"arrows move  alt holds  tab/space select  a all  c clear  u/r undo/redo  +/- step  l layer  f focus  s save  q quit",
	)
	return out
}

func (app *Application) draw() {
	if app.screen == nil {
		return
	}
	app.screen.Clear()
	w, h := app.screen.Size()
	style := tcell.StyleDefault
	for y, line := range app.lines() {
		if y >= h {
			break
		}
		x := 0
		for _, r := range line {
			if x >= w {
				break
			}
			app.screen.SetContent(x, y, r, nil, style)
			x++
		}
	}
	app.screen.Show()
}
