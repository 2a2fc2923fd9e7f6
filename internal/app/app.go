// Package app is the bundled terminal host. It puts a state-machine
// document in a graph editor surface, feeds terminal key reports through
// the input pipeline and wires the tracker, coordinator, settings store
// and script bridge together.
package app

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/graphnudge/internal/binding"
	"github.com/dshills/graphnudge/internal/config"
	"github.com/dshills/graphnudge/internal/config/notify"
	"github.com/dshills/graphnudge/internal/config/watcher"
	"github.com/dshills/graphnudge/internal/engine/history"
	"github.com/dshills/graphnudge/internal/engine/mover"
	"github.com/dshills/graphnudge/internal/graph"
	"github.com/dshills/graphnudge/internal/host"
	"github.com/dshills/graphnudge/internal/host/memhost"
	"github.com/dshills/graphnudge/internal/input"
	"github.com/dshills/graphnudge/internal/logging"
	"github.com/dshills/graphnudge/internal/plugin/lua"
	"github.com/dshills/graphnudge/internal/tracker"
)

// InspectorType is the type name of the secondary surface that takes
// focus when the graph editor loses it.
const InspectorType = "Inspector"

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file (.toml, .yaml or .yml).
	ConfigPath string

	// WatchConfig reloads the settings file when it changes.
	WatchConfig bool

	// DocumentPath is the document to open. Empty opens a sample.
	DocumentPath string

	// ScriptPath is a Lua script run at startup.
	ScriptPath string

	// LogPath overrides the configured log file.
	LogPath string

	// LogLevel overrides the configured log level.
	LogLevel string

	// MetricsPath receives the metrics in text format on shutdown.
	MetricsPath string

	// Screen is the terminal. Nil creates one in Run.
	Screen tcell.Screen

	// Now returns the current time. Default: time.Now
	Now func() time.Time
}

// Application is the terminal host.
type Application struct {
	opts Options
	now  func() time.Time

	log     *logging.Logger
	logFile io.Closer

	store   *config.Store
	watcher *watcher.Watcher
	reloads chan struct{}
	subs    []*notify.Subscription

	registry *prometheus.Registry
	metrics  *input.Metrics

	// Host model
	workbench *memhost.Workbench
	window    *memhost.GraphWindow
	inspector *memhost.Window
	selection *memhost.Selection
	dirty     *memhost.DirtySet
	history   *history.History

	// Movement
	binding     *binding.Context
	engine      *mover.Engine
	tracker     *tracker.Tracker
	coordinator *input.Coordinator
	pipeline    *Pipeline
	keys        *keyTracker

	// Scripting
	script *lua.State
	module *lua.Module

	document *graph.Document
	docPath  string
	cursor   int
	status   string

	screen    tcell.Screen
	running   atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// New creates the application and starts every component except the
// terminal.
func New(opts Options) (*Application, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	app := &Application{
		opts:    opts,
		now:     opts.Now,
		reloads: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	if err := app.bootstrap(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Settings. A broken file leaves the defaults in place.
	app.store = config.NewStore(config.Default())
	configErr := app.store.Load(app.opts.ConfigPath)
	settings := app.store.Settings()

	// 2. Logger
	if err := app.openLog(settings); err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	if configErr != nil {
		app.log.Warn("using default settings: %v", configErr)
	}

	// 3. Document
	if app.opts.DocumentPath != "" {
		doc, err := LoadDocument(app.opts.DocumentPath)
		if err != nil {
			return &InitError{Component: "document", Err: err}
		}
		app.document = doc
		app.docPath = app.opts.DocumentPath
	} else {
		app.document = SampleDocument()
	}

	// 4. Host model. The graph editor opens last so it starts focused.
	app.workbench = memhost.NewWorkbench()
	app.selection = memhost.NewSelection()
	app.dirty = memhost.NewDirtySet()
	app.history = history.NewHistory(0)
	app.inspector = memhost.NewWindow(InspectorType, nil)
	app.window = memhost.NewGraphWindow(app.document, app.selection)
	app.workbench.Open(app.inspector)
	app.workbench.Open(app.window)

	// 5. Binding, engine and tracker
	app.binding = binding.New(host.Services{
		Surfaces:  app.workbench,
		Focus:     app.workbench,
		Documents: app.workbench,
		Selection: app.selection,
		Undo:      app.history,
		Dirty:     app.dirty,
	}, app.log)
	app.engine = mover.New(app.binding, app.log)

	trackerCfg := tracker.DefaultConfig()
	trackerCfg.Aliases = settings.Binding.SurfaceAliases
	trackerCfg.PollInterval = settings.Binding.PollInterval
	trackerCfg.Now = app.now
	app.tracker = tracker.New(app.binding, trackerCfg, app.log)
	app.tracker.SetListener(tracker.Listener{
		Attached: func(s host.Surface) { app.setStatus("bound to " + s.TypeName()) },
		Detached: func(s host.Surface) { app.setStatus("unbound from " + s.TypeName()) },
	})

	// 6. Coordinator
	app.registry = prometheus.NewRegistry()
	app.metrics = input.NewMetrics(app.registry)
	coordCfg := input.DefaultConfig()
	coordCfg.Throttle = settings.Movement.Throttle
	coordCfg.FlushOnFocusLoss = settings.Movement.FlushOnFocusLoss
	coordCfg.Metrics = app.metrics
	coordCfg.Now = app.now
	app.coordinator = input.NewCoordinator(app.binding, app.engine, app.store, coordCfg, app.log)
	app.pipeline = NewPipeline(app.log)
	app.coordinator.Attach(app.pipeline)
	app.keys = newKeyTracker(settings.Terminal.ReleaseDelay)

	// 7. Scripting
	app.script = lua.NewState()
	app.module = lua.NewModule(app.binding, app.engine, app.store, app.log)
	app.module.Busy = func() bool { return app.coordinator.State() == input.StateDragging }
	app.module.Register(app.script)
	if app.opts.ScriptPath != "" {
		if err := app.script.DoFile(app.opts.ScriptPath); err != nil {
			return &InitError{Component: "script", Err: err}
		}
	}

	// 8. Settings subscriptions and live reload
	app.subscribe()
	if app.opts.WatchConfig && app.opts.ConfigPath != "" {
		if err := app.watchConfig(); err != nil {
			app.log.Warn("config watcher disabled: %v", err)
		}
	}

	// Bind before the first frame.
	app.tracker.Tick()
	app.log.Info("opened %q with %d layers", app.document.Name(), app.document.LayerCount())
	return nil
}

// openLog creates the logger. The terminal owns stdout and stderr, so
// without a log file output is discarded.
func (app *Application) openLog(s config.Settings) error {
	path := app.opts.LogPath
	if path == "" {
		path = s.Logging.File
	}
	level := app.opts.LogLevel
	if level == "" {
		level = s.Logging.Level
	}

	var out io.Writer = io.Discard
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		app.logFile = f
		out = f
	}

	cfg := logging.DefaultConfig()
	cfg.Output = out
	cfg.Level = logging.ParseLevel(level)
	app.log = logging.New(cfg)
	return nil
}

// Close releases every component. It is safe to call more than once and
// on a partially initialized application.
func (app *Application) Close() error {
	var errs ErrorList
	app.closeOnce.Do(func() {
		if app.watcher != nil {
			errs.Add(app.watcher.Stop())
		}
		for _, sub := range app.subs {
			sub.Unsubscribe()
		}
		if app.script != nil {
			errs.Add(app.script.Close())
		}
		if app.opts.MetricsPath != "" && app.registry != nil {
			errs.Add(prometheus.WriteToTextfile(app.opts.MetricsPath, app.registry))
		}
		if app.store != nil {
			app.store.Close()
		}
		if app.logFile != nil {
			errs.Add(app.logFile.Close())
		}
	})
	return errs.AsError()
}

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Store returns the settings store.
func (app *Application) Store() *config.Store {
	return app.store
}

// Document returns the open document.
func (app *Application) Document() *graph.Document {
	return app.document
}

// Window returns the graph editor surface.
func (app *Application) Window() *memhost.GraphWindow {
	return app.window
}

// Selection returns the host selection.
func (app *Application) Selection() *memhost.Selection {
	return app.selection
}

// History returns the undo history.
func (app *Application) History() *history.History {
	return app.history
}

// Coordinator returns the input coordinator.
func (app *Application) Coordinator() *input.Coordinator {
	return app.coordinator
}

// Binding returns the binding context.
func (app *Application) Binding() *binding.Context {
	return app.binding
}

// Status returns the last status message.
func (app *Application) Status() string {
	return app.status
}

func (app *Application) setStatus(msg string) {
	app.status = msg
	app.log.Debug("status: %s", msg)
}
