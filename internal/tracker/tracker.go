// Package tracker binds graphnudge to the host's graph editor surface.
//
// On every host tick the tracker enumerates the live surfaces. A surface
// seen for the first time whose type name matches one of the configured
// aliases becomes the bound surface; when several appear at once the last
// one wins. When any target surface disappears from the enumeration the
// binding is cleared; a remaining target is bound again only once a new one
// opens.
//
// At a slower poll interval the tracker re-resolves the document shown by
// the bound surface and adopts it when its identity changed. This covers
// documents that are reloaded behind an unchanged surface.
package tracker

import (
	"strings"
	"time"

	"github.com/dshills/graphnudge/internal/binding"
	"github.com/dshills/graphnudge/internal/config"
	"github.com/dshills/graphnudge/internal/graph"
	"github.com/dshills/graphnudge/internal/host"
	"github.com/dshills/graphnudge/internal/logging"
)

// Config configures the tracker.
type Config struct {
	// Aliases are matched against surface type names.
	Aliases []string

	// PollInterval is the minimum time between document checks.
	// Default: 500ms
	PollInterval time.Duration

	// Now returns the current time. Default: time.Now
	Now func() time.Time
}

// DefaultConfig returns the default aliases and poll interval.
func DefaultConfig() Config {
	return Config{
		Aliases:      append([]string(nil), config.DefaultSurfaceAliases...),
		PollInterval: config.DefaultPollInterval,
		Now:          time.Now,
	}
}

// Listener observes binding changes. Any field may be nil.
type Listener struct {
	Attached func(s host.Surface)
	Detached func(s host.Surface)
	Document func(old, doc *graph.Document)
}

// Tracker discovers the target surface and keeps the binding context's
// document current. It must be used from the host's event thread.
type Tracker struct {
	ctx      *binding.Context
	config   Config
	log      *logging.Logger
	listener Listener

	// Surfaces seen by the previous tick, true for target surfaces
	tracked map[host.Surface]bool

	lastCheck time.Time
}

// New creates a tracker over ctx.
func New(ctx *binding.Context, cfg Config, log *logging.Logger) *Tracker {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if len(cfg.Aliases) == 0 {
		cfg.Aliases = append([]string(nil), config.DefaultSurfaceAliases...)
	}
	return &Tracker{
		ctx:     ctx,
		config:  cfg,
		log:     logging.OrDiscard(log).WithComponent("tracker"),
		tracked: make(map[host.Surface]bool),
	}
}

// SetListener replaces the change listener.
func (t *Tracker) SetListener(l Listener) {
	t.listener = l
}

// SetAliases replaces the surface aliases. An empty list restores the
// defaults.
func (t *Tracker) SetAliases(aliases []string) {
	if len(aliases) == 0 {
		aliases = config.DefaultSurfaceAliases
	}
	t.config.Aliases = append([]string(nil), aliases...)
}

// SetPollInterval changes the document check interval.
func (t *Tracker) SetPollInterval(d time.Duration) {
	t.config.PollInterval = d
}

// Matches reports whether typeName names a target surface: it matches when
// some alias contains it, ignoring case and surrounding space.
func (t *Tracker) Matches(typeName string) bool {
	name := strings.ToLower(strings.TrimSpace(typeName))
	if name == "" {
		return false
	}
	for _, alias := range t.config.Aliases {
		if strings.Contains(strings.ToLower(strings.TrimSpace(alias)), name) {
			return true
		}
	}
	return false
}

// Tick runs surface detection and, when the poll interval has elapsed, the
// document check.
func (t *Tracker) Tick() {
	t.DetectSurfaces()
	t.CheckDocument(false)
}

// DetectSurfaces binds newly opened target surfaces and clears the binding
// when a target surface seen by the previous tick has closed.
func (t *Tracker) DetectSurfaces() {
	enum := t.ctx.Services().Surfaces
	if enum == nil {
		return
	}
	var surfaces []host.Surface
	if err := binding.Guard("enumerate surfaces", func() { surfaces = enum.Surfaces() }); err != nil {
		t.log.Error("surface enumeration failed: %v", err)
		return
	}

	current := make(map[host.Surface]bool, len(surfaces))
	var found host.Surface
	for _, s := range surfaces {
		if s == nil {
			continue
		}
		if target, seen := t.tracked[s]; seen {
			current[s] = target
			continue
		}
		current[s] = t.matches(s)
		if current[s] {
			found = s
		}
	}

	for s, target := range t.tracked {
		if _, open := current[s]; open || !target {
			continue
		}
		if t.ctx.IsBound() {
			t.detach(s)
		}
	}

	t.tracked = current

	if found != nil && found != t.ctx.Surface() {
		t.attach(found)
	}
}

func (t *Tracker) matches(s host.Surface) bool {
	return t.Matches(t.typeName(s))
}

func (t *Tracker) typeName(s host.Surface) string {
	var name string
	if err := binding.Guard("surface type", func() { name = s.TypeName() }); err != nil {
		t.log.Error("reading surface type failed: %v", err)
		return ""
	}
	return name
}

func (t *Tracker) attach(s host.Surface) {
	old := t.ctx.Document()
	t.ctx.Bind(s)
	t.ctx.SetDocument(nil)
	t.log.Info("bound to %s", t.typeName(s))
	if t.listener.Attached != nil {
		t.listener.Attached(s)
	}
	if old != nil && t.listener.Document != nil {
		t.listener.Document(old, nil)
	}
	t.CheckDocument(true)
}

func (t *Tracker) detach(s host.Surface) {
	old := t.ctx.Document()
	t.ctx.Clear()
	t.log.Info("target surface %s closed", t.typeName(s))
	if t.listener.Detached != nil {
		t.listener.Detached(s)
	}
	if old != nil && t.listener.Document != nil {
		t.listener.Document(old, nil)
	}
}

// CheckDocument re-resolves the bound surface's document when the poll
// interval has elapsed, or immediately with force. A document that differs
// by identity from the cached one replaces it.
func (t *Tracker) CheckDocument(force bool) {
	now := t.config.Now()
	if !force && !t.lastCheck.IsZero() && now.Sub(t.lastCheck) < t.config.PollInterval {
		return
	}
	t.lastCheck = now

	if !t.ctx.IsBound() {
		return
	}
	doc, err := t.ctx.ResolveDocument()
	if err != nil {
		return
	}

	old := t.ctx.Document()
	if doc == old {
		return
	}
	t.ctx.SetDocument(doc)
	switch {
	case doc == nil:
		t.log.Info("document closed")
	case old == nil:
		t.log.Info("document %q resolved", doc.Name())
	default:
		t.log.Info("document replaced by %q", doc.Name())
	}
	if t.listener.Document != nil {
		t.listener.Document(old, doc)
	}
}

// Tracked returns how many surfaces the previous tick saw.
func (t *Tracker) Tracked() int {
	return len(t.tracked)
}

// Reset forgets every tracked surface and clears the binding. The next tick
// rediscovers the open surfaces.
func (t *Tracker) Reset() {
	if t.ctx.IsBound() {
		t.detach(t.ctx.Surface())
	}
	t.tracked = make(map[host.Surface]bool)
	t.lastCheck = time.Time{}
}
