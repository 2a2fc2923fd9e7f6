package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/graphnudge/internal/binding"
	"github.com/dshills/graphnudge/internal/engine/mover"
	"github.com/dshills/graphnudge/internal/graph"
	"github.com/dshills/graphnudge/internal/host"
	"github.com/dshills/graphnudge/internal/logging"
)

// ModuleName is the name scripts pass to require.
const ModuleName = "graphnudge"

// NudgeGroupName is the undo label of a scripted nudge.
const NudgeGroupName = "Nudge State Machine Nodes"

// Module exposes the binding context and movement engine to scripts.
type Module struct {
	ctx      *binding.Context
	engine   *mover.Engine
	settings host.Settings
	log      *logging.Logger

	// Busy reports whether a keyboard gesture is open. nudge fails while
	// it returns true.
	Busy func() bool
}

// NewModule creates the graphnudge module.
func NewModule(ctx *binding.Context, engine *mover.Engine, settings host.Settings, log *logging.Logger) *Module {
	return &Module{
		ctx:      ctx,
		engine:   engine,
		settings: settings,
		log:      logging.OrDiscard(log).WithComponent("lua"),
	}
}

// Register preloads the module into s.
func (m *Module) Register(s *State) {
	s.Preload(ModuleName, m.loader)
}

func (m *Module) loader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"step":            m.step,
		"set_step":        m.setStep,
		"selected_states": m.selectedStates,
		"layer":           m.layer,
		"nudge":           m.nudge,
		"log":             m.logMessage,
	})
	L.Push(mod)
	return 1
}

// step() -> number
func (m *Module) step(L *lua.LState) int {
	if m.settings == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(m.settings.MoveStep()))
	return 1
}

// set_step(v)
func (m *Module) setStep(L *lua.LState) int {
	v := float64(L.CheckNumber(1))
	if m.settings == nil {
		L.RaiseError("settings unavailable")
		return 0
	}
	m.settings.SetMoveStep(v)
	return 0
}

// selected_states([nested]) -> {{id, name, x, y}, ...}
func (m *Module) selectedStates(L *lua.LState) int {
	nested := L.OptBool(1, true)
	b := NewBridge(L)

	out := L.NewTable()
	layer, ok := m.ctx.SelectedLayer()
	if !ok || layer.StateMachine == nil {
		L.Push(out)
		return 1
	}

	layer.StateMachine.Walk(func(sm, _ *graph.StateMachine) bool {
		for _, cs := range sm.States() {
			if cs.State == nil || !m.ctx.IsSelected(cs.State) {
				continue
			}
			out.Append(b.ToLuaValue(map[string]any{
				"id":      cs.State.ID().String(),
				"name":    cs.State.Name(),
				"x":       cs.Position.X,
				"y":       cs.Position.Y,
				"machine": sm.Name(),
			}))
		}
		return nested
	})
	L.Push(out)
	return 1
}

// layer() -> index, name | nil
func (m *Module) layer(L *lua.LState) int {
	idx := m.ctx.SelectedLayerIndex()
	layer, ok := m.ctx.SelectedLayer()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(idx))
	L.Push(lua.LString(layer.Name))
	return 2
}

// nudge(dx, dy) -> moved
func (m *Module) nudge(L *lua.LState) int {
	offset := graph.Vec2{X: float64(L.CheckNumber(1)), Y: float64(L.CheckNumber(2))}
	if m.Busy != nil && m.Busy() {
		L.RaiseError("%v", ErrGestureActive)
		return 0
	}

	moved, err := m.Nudge(offset)
	if err != nil {
		L.RaiseError("nudge: %v", err)
		return 0
	}
	L.Push(lua.LNumber(moved))
	return 1
}

// Nudge moves the selection by offset as one undo entry and returns the
// number of nodes moved.
func (m *Module) Nudge(offset graph.Vec2) (int, error) {
	if offset.IsZero() {
		return 0, nil
	}

	u := m.ctx.Undo()
	group := -1
	if u != nil {
		if err := binding.Guard("undo group", func() {
			group = u.CurrentGroup()
			u.SetCurrentGroupName(NudgeGroupName)
		}); err != nil {
			return 0, err
		}
	}

	res, err := m.engine.MoveSelected(offset)
	if u != nil && group >= 0 {
		if gerr := binding.Guard("collapse undo", func() { u.CollapseFrom(group) }); gerr != nil && err == nil {
			err = gerr
		}
	}
	if ferr := binding.Guard("flush", m.engine.FlushChanges); ferr != nil && err == nil {
		err = ferr
	}
	if err != nil {
		return 0, err
	}

	m.log.Debug("nudged %d nodes by %v", res.Moved(), offset)
	return res.Moved(), nil
}

// log(msg)
func (m *Module) logMessage(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	m.log.Info("%s", strings.Join(parts, " "))
	return 0
}
