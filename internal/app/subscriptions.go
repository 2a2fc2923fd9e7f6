package app

import (
	"fmt"

	"github.com/dshills/graphnudge/internal/config"
	"github.com/dshills/graphnudge/internal/config/notify"
	"github.com/dshills/graphnudge/internal/config/watcher"
	"github.com/dshills/graphnudge/internal/logging"
)

// subscribe pushes settings changes into the running components.
func (app *Application) subscribe() {
	app.subs = append(app.subs,
		app.store.Subscribe("", func(c notify.Change) {
			if c.Type == notify.ChangeReload {
				app.applySettings(app.store.Settings())
				app.setStatus("settings reloaded")
			}
		}),
		app.store.Subscribe("movement.step", func(c notify.Change) {
			if c.Type == notify.ChangeSet {
				app.setStatus(fmt.Sprintf("step %v", c.NewValue))
			}
		}),
	)
}

// applySettings installs s in every component that caches a setting.
// The move step is read from the store on every tick and needs no copy.
func (app *Application) applySettings(s config.Settings) {
	app.coordinator.SetThrottle(s.Movement.Throttle)
	app.coordinator.SetFlushOnFocusLoss(s.Movement.FlushOnFocusLoss)
	app.tracker.SetAliases(s.Binding.SurfaceAliases)
	app.tracker.SetPollInterval(s.Binding.PollInterval)
	app.keys.setDelay(s.Terminal.ReleaseDelay)
	if app.opts.LogLevel == "" {
		app.log.SetLevel(logging.ParseLevel(s.Logging.Level))
	}
}

// watchConfig reloads the settings file on change. The watcher calls back
// on its own goroutine, so it only signals the event loop.
func (app *Application) watchConfig() error {
	w, err := watcher.New(app.opts.ConfigPath, watcher.WithLogger(app.log))
	if err != nil {
		return err
	}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove {
			return
		}
		select {
		case app.reloads <- struct{}{}:
		default:
		}
	})
	if err := w.Start(); err != nil {
		return err
	}
	app.watcher = w
	return nil
}

// reloadConfig re-reads the settings file on the event loop.
func (app *Application) reloadConfig() {
	if err := app.store.Reload(); err != nil {
		app.log.Warn("reloading %s: %v", app.store.Path(), err)
		app.setStatus("settings error: " + err.Error())
	}
}
