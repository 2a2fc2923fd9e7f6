// Package config provides the settings for graphnudge.
//
// Settings are built from three layers, lowest priority first: built-in
// defaults, a settings file (TOML or YAML, chosen by extension), and
// GRAPHNUDGE_* environment variables. The merged map is decoded into
// Settings with mapstructure.
//
//	# graphnudge.toml
//	[movement]
//	step = 10.0
//	throttle = "16ms"
//	flush_on_focus_loss = true
//
//	[binding]
//	poll_interval = "500ms"
//	surface_aliases = ["statemachine.GraphEditor, statemachine", "GraphEditor", "StateMachineWindow"]
//
//	[logging]
//	level = "info"
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment variable loading
//   - watcher: fsnotify-based live reload of the settings file
//   - notify: change notification for settings subscribers
//
// A Store holds the current Settings and is the settings store consumed by
// the input coordinator. The movement step never drops below MinMoveStep.
package config
