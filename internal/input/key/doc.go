// Package key provides key event types for the input system.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a keyboard key (special keys, arrows, modifier keys, runes)
//   - Modifier: Represents modifier state (Ctrl, Alt, Shift, Meta)
//   - Action: Whether the key went down or came back up
//   - Event: A single key transition with modifiers and timestamp
//
// Modifier keys such as Alt are also representable as a Key so that a host
// reporting raw key-down/key-up transitions can deliver them like any other
// key.
package key
