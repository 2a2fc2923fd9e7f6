package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Movement defaults and limits.
const (
	DefaultMoveStep     = 10.0
	MinMoveStep         = 0.1
	DefaultThrottle     = 16 * time.Millisecond
	DefaultPollInterval = 500 * time.Millisecond
	DefaultReleaseDelay = 120 * time.Millisecond
)

// DefaultSurfaceAliases are the surface type names recognized as a graph
// editor.
var DefaultSurfaceAliases = []string{
	"statemachine.GraphEditor, statemachine",
	"GraphEditor",
	"StateMachineWindow",
}

// Settings is the full graphnudge configuration.
type Settings struct {
	Movement MovementSettings `mapstructure:"movement"`
	Binding  BindingSettings  `mapstructure:"binding"`
	Terminal TerminalSettings `mapstructure:"terminal"`
	Logging  LoggingSettings  `mapstructure:"logging"`
}

// MovementSettings configures the input coordinator.
type MovementSettings struct {
	// Step is the distance moved per accepted tick.
	Step float64 `mapstructure:"step"`
	// Throttle is the minimum interval between accepted ticks.
	Throttle time.Duration `mapstructure:"throttle"`
	// FlushOnFocusLoss ends a gesture when the surface loses focus.
	FlushOnFocusLoss bool `mapstructure:"flush_on_focus_loss"`
}

// BindingSettings configures the document binding tracker.
type BindingSettings struct {
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	SurfaceAliases []string      `mapstructure:"surface_aliases"`
}

// TerminalSettings configures the bundled terminal host.
type TerminalSettings struct {
	// ReleaseDelay is how long after the last repeat a held key is
	// considered released. Terminals report no key-up events.
	ReleaseDelay time.Duration `mapstructure:"release_delay"`
}

// LoggingSettings configures the logger.
type LoggingSettings struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Movement: MovementSettings{
			Step:             DefaultMoveStep,
			Throttle:         DefaultThrottle,
			FlushOnFocusLoss: true,
		},
		Binding: BindingSettings{
			PollInterval:   DefaultPollInterval,
			SurfaceAliases: append([]string(nil), DefaultSurfaceAliases...),
		},
		Terminal: TerminalSettings{
			ReleaseDelay: DefaultReleaseDelay,
		},
		Logging: LoggingSettings{
			Level: "info",
		},
	}
}

// defaultMap returns the defaults in the shape produced by the loaders.
func defaultMap() map[string]any {
	d := Default()
	aliases := make([]any, len(d.Binding.SurfaceAliases))
	for i, a := range d.Binding.SurfaceAliases {
		aliases[i] = a
	}
	return map[string]any{
		"movement": map[string]any{
			"step":                d.Movement.Step,
			"throttle":            d.Movement.Throttle.String(),
			"flush_on_focus_loss": d.Movement.FlushOnFocusLoss,
		},
		"binding": map[string]any{
			"poll_interval":   d.Binding.PollInterval.String(),
			"surface_aliases": aliases,
		},
		"terminal": map[string]any{
			"release_delay": d.Terminal.ReleaseDelay.String(),
		},
		"logging": map[string]any{
			"level": d.Logging.Level,
			"file":  d.Logging.File,
		},
	}
}

// Decode converts a merged settings map into Settings and validates it.
func Decode(raw map[string]any) (Settings, error) {
	var s Settings
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return Settings{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	return s.Normalize()
}

// Normalize clamps the move step and rejects negative durations.
func (s Settings) Normalize() (Settings, error) {
	s.Movement.Step = ClampStep(s.Movement.Step)
	if s.Movement.Throttle < 0 {
		return s, &ValidationError{Path: "movement.throttle", Value: s.Movement.Throttle, Message: "must not be negative"}
	}
	if s.Binding.PollInterval < 0 {
		return s, &ValidationError{Path: "binding.poll_interval", Value: s.Binding.PollInterval, Message: "must not be negative"}
	}
	if s.Terminal.ReleaseDelay < 0 {
		return s, &ValidationError{Path: "terminal.release_delay", Value: s.Terminal.ReleaseDelay, Message: "must not be negative"}
	}
	if len(s.Binding.SurfaceAliases) == 0 {
		s.Binding.SurfaceAliases = append([]string(nil), DefaultSurfaceAliases...)
	}
	return s, nil
}

// ClampStep enforces the minimum move step.
func ClampStep(v float64) float64 {
	if v < MinMoveStep || v != v {
		return MinMoveStep
	}
	return v
}
