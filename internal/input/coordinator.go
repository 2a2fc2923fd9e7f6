package input

import (
	"errors"
	"sort"
	"time"

	"github.com/dshills/graphnudge/internal/binding"
	"github.com/dshills/graphnudge/internal/config"
	"github.com/dshills/graphnudge/internal/engine/mover"
	"github.com/dshills/graphnudge/internal/graph"
	"github.com/dshills/graphnudge/internal/host"
	"github.com/dshills/graphnudge/internal/input/key"
	"github.com/dshills/graphnudge/internal/logging"
)

// GroupName is the undo label of a movement gesture.
const GroupName = "Move State Machine Nodes"

// Config configures the coordinator.
type Config struct {
	// Throttle is the minimum interval between accepted moves.
	// Default: 16ms
	Throttle time.Duration

	// FlushOnFocusLoss ends an open gesture from Poll when the bound
	// surface is no longer focused.
	FlushOnFocusLoss bool

	// Metrics receives counters. Nil disables them.
	Metrics *Metrics

	// Now returns the current time. Default: time.Now
	Now func() time.Time
}

// DefaultConfig returns a configuration with the default throttle.
func DefaultConfig() Config {
	return Config{
		Throttle:         config.DefaultThrottle,
		FlushOnFocusLoss: true,
		Now:              time.Now,
	}
}

// Coordinator converts tracked key events into movement of the selected
// nodes. It must be used from the host's event thread.
type Coordinator struct {
	ctx      *binding.Context
	engine   *mover.Engine
	settings host.Settings
	config   Config
	log      *logging.Logger

	// Currently held tracked keys
	held map[key.Key]struct{}

	// Gesture state
	state     SessionState
	group     int
	groupOpen bool
	moves     int
	lastMove  time.Time
}

// NewCoordinator creates an idle coordinator.
func NewCoordinator(ctx *binding.Context, engine *mover.Engine, settings host.Settings, cfg Config, log *logging.Logger) *Coordinator {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Throttle < 0 {
		cfg.Throttle = 0
	}
	return &Coordinator{
		ctx:      ctx,
		engine:   engine,
		settings: settings,
		config:   cfg,
		log:      logging.OrDiscard(log).WithComponent("input"),
		held:     make(map[key.Key]struct{}),
	}
}

// Attach registers the coordinator in the host's input pipeline. Existing
// handlers are kept.
func (c *Coordinator) Attach(p host.Pipeline) {
	p.AddHandler(func(ev *host.Event) { c.HandleEvent(ev) })
}

// SetThrottle changes the minimum interval between accepted moves.
func (c *Coordinator) SetThrottle(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.config.Throttle = d
}

// SetFlushOnFocusLoss changes whether Poll ends gestures on focus loss.
func (c *Coordinator) SetFlushOnFocusLoss(v bool) {
	c.config.FlushOnFocusLoss = v
}

// State returns the gesture state.
func (c *Coordinator) State() SessionState {
	return c.state
}

// HeldKeys returns the held tracked keys in key order.
func (c *Coordinator) HeldKeys() []key.Key {
	keys := make([]key.Key, 0, len(c.held))
	for k := range c.held {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Step returns the current move step, never below config.MinMoveStep.
func (c *Coordinator) Step() float64 {
	if c.settings == nil {
		return config.DefaultMoveStep
	}
	return config.ClampStep(c.settings.MoveStep())
}

// Offset returns the movement vector of the held keys for one tick.
func (c *Coordinator) Offset() graph.Vec2 {
	var v graph.Vec2
	for k := range c.held {
		v = v.Add(DirectionOf(k).Unit())
	}
	return v.Scale(c.Step())
}

// HandleEvent processes one host event and reports whether it was
// consumed. Only tracked key events on a focused surface are considered.
func (c *Coordinator) HandleEvent(ev *host.Event) bool {
	if ev == nil || ev.Type != host.EventKey {
		return false
	}
	k := ev.Key.Key
	if !IsTracked(k) || !c.ctx.IsFocused() {
		return false
	}

	switch ev.Key.Action {
	case key.ActionDown:
		c.held[k] = struct{}{}
	case key.ActionUp:
		delete(c.held, k)
	default:
		return false
	}

	if len(c.held) == 0 {
		if c.state == StateDragging {
			c.finish("released")
		}
		return false
	}

	offset := c.Offset()
	if offset.IsZero() {
		return false
	}

	now := c.config.Now()
	if !c.lastMove.IsZero() && now.Sub(c.lastMove) < c.config.Throttle {
		c.config.Metrics.recordThrottled()
		return false
	}
	c.lastMove = now

	if !c.move(offset) {
		return false
	}
	ev.Use()
	return true
}

// move applies one accepted tick, opening the gesture's undo group first.
func (c *Coordinator) move(offset graph.Vec2) bool {
	if c.state == StateIdle {
		c.begin()
	}

	start := time.Now()
	var res mover.Result
	var moveErr error
	if err := binding.Guard("move", func() { res, moveErr = c.engine.MoveSelected(offset) }); err != nil {
		c.config.Metrics.recordHostError()
		c.log.Error("move by %v aborted: %v", offset, err)
		return false
	}
	if moveErr != nil {
		if !errors.Is(moveErr, binding.ErrNoDocument) && !errors.Is(moveErr, binding.ErrNoLayer) {
			c.log.Warn("move by %v failed: %v", offset, moveErr)
		}
		return false
	}

	c.moves++
	c.config.Metrics.recordMove(time.Since(start), res.Rebuilt)
	return true
}

func (c *Coordinator) begin() {
	c.state = StateDragging
	c.moves = 0
	c.groupOpen = false
	u := c.ctx.Undo()
	if u == nil {
		return
	}
	if err := binding.Guard("undo group", func() {
		c.group = u.CurrentGroup()
		u.SetCurrentGroupName(GroupName)
	}); err != nil {
		c.log.Error("opening undo group: %v", err)
		return
	}
	c.groupOpen = true
}

// finish closes the gesture: its undo records collapse into one entry and
// the engine flushes its pending flags.
func (c *Coordinator) finish(reason string) {
	if u := c.ctx.Undo(); u != nil && c.groupOpen {
		group := c.group
		if err := binding.Guard("collapse undo", func() { u.CollapseFrom(group) }); err != nil {
			c.log.Error("collapsing undo group %d: %v", group, err)
		}
	}
	if err := binding.Guard("flush", c.engine.FlushChanges); err != nil {
		c.log.Error("flushing changes: %v", err)
	}

	c.log.Debug("gesture %s after %d moves", reason, c.moves)
	c.config.Metrics.recordGesture()
	c.state = StateIdle
	c.groupOpen = false
	c.moves = 0
}

// Poll runs once per host tick. With FlushOnFocusLoss it drops held keys
// and ends the open gesture when the surface lost focus or was unbound.
func (c *Coordinator) Poll() {
	if !c.config.FlushOnFocusLoss {
		return
	}
	if c.state == StateIdle && len(c.held) == 0 {
		return
	}
	if c.ctx.IsBound() && c.ctx.IsFocused() {
		return
	}

	clear(c.held)
	if c.state == StateDragging {
		c.finish("interrupted by focus loss")
	}
}
