package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/graphnudge/internal/config/notify"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStore_LoadTOML(t *testing.T) {
	path := writeFile(t, "graphnudge.toml", `
[movement]
step = 2.5
throttle = "20ms"

[logging]
level = "debug"
`)
	s := NewStore(Default())
	defer s.Close()

	if err := s.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := s.MoveStep(); got != 2.5 {
		t.Errorf("MoveStep() = %v, want 2.5", got)
	}
	if got := s.Throttle(); got != 20*time.Millisecond {
		t.Errorf("Throttle() = %v, want 20ms", got)
	}
	if got := s.Settings().Logging.Level; got != "debug" {
		t.Errorf("Logging.Level = %q, want debug", got)
	}
	if got := s.Settings().Binding.PollInterval; got != DefaultPollInterval {
		t.Errorf("PollInterval = %v, want default", got)
	}
	if s.Path() != path {
		t.Errorf("Path() = %q, want %q", s.Path(), path)
	}
}

func TestStore_LoadYAML(t *testing.T) {
	path := writeFile(t, "graphnudge.yaml", "movement:\n  step: 0.01\n  flush_on_focus_loss: false\n")
	s := NewStore(Default())
	defer s.Close()

	if err := s.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := s.MoveStep(); got != MinMoveStep {
		t.Errorf("MoveStep() = %v, want clamp to %v", got, MinMoveStep)
	}
	if s.FlushOnFocusLoss() {
		t.Error("FlushOnFocusLoss() = true, want false")
	}
}

func TestStore_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "graphnudge.toml", "[movement]\nstep = 2.5\n")
	t.Setenv("GRAPHNUDGE_MOVE_STEP", "7")

	s := NewStore(Default())
	defer s.Close()
	if err := s.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := s.MoveStep(); got != 7 {
		t.Errorf("MoveStep() = %v, want 7", got)
	}
}

func TestStore_LoadErrors(t *testing.T) {
	s := NewStore(Default())
	defer s.Close()

	if err := s.Load("graphnudge.json"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(json) = %v, want ErrUnsupportedFormat", err)
	}

	bad := writeFile(t, "graphnudge.toml", "[movement]\nthrottle = \"-3ms\"\n")
	s.SetMoveStep(4)
	if err := s.Load(bad); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Load(bad) = %v, want ErrInvalidValue", err)
	}
	if got := s.MoveStep(); got != 4 {
		t.Errorf("MoveStep() = %v after failed load, want 4", got)
	}
}

func TestStore_MissingFileUsesDefaults(t *testing.T) {
	s := NewStore(Settings{})
	defer s.Close()

	if err := s.Load(filepath.Join(t.TempDir(), "absent.toml")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := s.MoveStep(); got != DefaultMoveStep {
		t.Errorf("MoveStep() = %v, want %v", got, DefaultMoveStep)
	}
}

func TestStore_SetMoveStep(t *testing.T) {
	s := NewStore(Default())
	defer s.Close()

	var changes []notify.Change
	s.Subscribe("movement", func(c notify.Change) { changes = append(changes, c) })

	s.SetMoveStep(5)
	s.SetMoveStep(5)
	s.SetMoveStep(-1)

	if got := s.MoveStep(); got != MinMoveStep {
		t.Errorf("MoveStep() = %v, want %v", got, MinMoveStep)
	}
	if len(changes) != 2 {
		t.Fatalf("received %d changes, want 2", len(changes))
	}
	if changes[0].Path != "movement.step" || changes[0].NewValue != 5.0 {
		t.Errorf("first change = %+v", changes[0])
	}
}

func TestStore_ReloadNotifies(t *testing.T) {
	path := writeFile(t, "graphnudge.toml", "[movement]\nstep = 3.0\n")
	s := NewStore(Default())
	defer s.Close()

	var reloads int
	s.Subscribe("", func(c notify.Change) {
		if c.Type == notify.ChangeReload {
			reloads++
		}
	})

	if err := s.Load(path); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[movement]\nstep = 6.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); err != nil {
		t.Fatal(err)
	}
	if got := s.MoveStep(); got != 6 {
		t.Errorf("MoveStep() = %v after reload, want 6", got)
	}
	if reloads != 2 {
		t.Errorf("reloads = %d, want 2", reloads)
	}
}

func TestStore_SettingsIsCopy(t *testing.T) {
	s := NewStore(Default())
	defer s.Close()

	got := s.Settings()
	got.Binding.SurfaceAliases[0] = "mutated"
	if s.Settings().Binding.SurfaceAliases[0] == "mutated" {
		t.Error("Settings() exposes the internal alias slice")
	}
}

func TestStore_Replace(t *testing.T) {
	s := NewStore(Default())
	defer s.Close()

	next := Default()
	next.Movement.Throttle = -time.Second
	if err := s.Replace(next, "test"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Replace(invalid) = %v, want ErrInvalidValue", err)
	}

	next.Movement.Throttle = time.Millisecond
	next.Movement.Step = 0
	if err := s.Replace(next, "test"); err != nil {
		t.Fatal(err)
	}
	if s.Throttle() != time.Millisecond || s.MoveStep() != MinMoveStep {
		t.Errorf("Replace not applied: throttle=%v step=%v", s.Throttle(), s.MoveStep())
	}
}
