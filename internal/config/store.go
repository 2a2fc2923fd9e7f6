package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/dshills/graphnudge/internal/config/loader"
	"github.com/dshills/graphnudge/internal/config/notify"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "GRAPHNUDGE_"

// Store holds the live settings. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	settings Settings
	path     string
	env      *loader.EnvLoader
	notifier *notify.Notifier
}

// NewStore creates a store holding s.
func NewStore(s Settings) *Store {
	s.Movement.Step = ClampStep(s.Movement.Step)
	return &Store{
		settings: s,
		env:      loader.NewEnvLoader(EnvPrefix),
		notifier: notify.New(),
	}
}

// Load reads path over the defaults, applies GRAPHNUDGE_* overrides and
// installs the result. An empty path loads defaults and environment only.
// A missing file is not an error.
func (s *Store) Load(path string) error {
	settings, err := s.read(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.settings = settings
	s.path = path
	s.mu.Unlock()

	s.notifier.NotifyReload(path)
	return nil
}

// Reload re-reads the file given to the last Load. On error the current
// settings are kept.
func (s *Store) Reload() error {
	return s.Load(s.Path())
}

func (s *Store) read(path string) (Settings, error) {
	var file map[string]any
	if path != "" {
		fl := loader.ForPath(path)
		if fl == nil {
			return Settings{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
		}
		var err error
		if file, err = fl.Load(); err != nil {
			return Settings{}, err
		}
	}

	env, err := s.env.Load()
	if err != nil {
		return Settings{}, err
	}

	return Decode(loader.Merge(defaultMap(), file, env))
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.settings
	out.Binding.SurfaceAliases = append([]string(nil), s.settings.Binding.SurfaceAliases...)
	return out
}

// Replace installs settings directly and notifies a reload.
func (s *Store) Replace(settings Settings, source string) error {
	settings, err := settings.Normalize()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	s.notifier.NotifyReload(source)
	return nil
}

// Path returns the settings file given to the last Load.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// MoveStep returns the distance moved per accepted tick.
func (s *Store) MoveStep() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Movement.Step
}

// SetMoveStep sets the move step, clamped to MinMoveStep.
func (s *Store) SetMoveStep(v float64) {
	v = ClampStep(v)

	s.mu.Lock()
	old := s.settings.Movement.Step
	s.settings.Movement.Step = v
	s.mu.Unlock()

	if old != v {
		s.notifier.NotifySet("movement.step", old, v, "set")
	}
}

// Throttle returns the minimum interval between accepted ticks.
func (s *Store) Throttle() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Movement.Throttle
}

// FlushOnFocusLoss reports whether losing focus ends a gesture.
func (s *Store) FlushOnFocusLoss() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Movement.FlushOnFocusLoss
}

// Subscribe registers an observer for changes under path. An empty path
// observes everything.
func (s *Store) Subscribe(path string, observer notify.Observer) *notify.Subscription {
	return s.notifier.SubscribePath(path, observer)
}

// Close releases all subscriptions.
func (s *Store) Close() {
	s.notifier.Close()
}
