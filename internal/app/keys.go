package app

import (
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/graphnudge/internal/input"
	"github.com/dshills/graphnudge/internal/input/key"
)

// keyTracker turns terminal key reports into press and release
// transitions. Terminals only report presses and auto-repeats, so a held
// key is released once no repeat arrived for the release delay.
type keyTracker struct {
	delay    time.Duration
	lastSeen map[key.Key]time.Time
}

func newKeyTracker(delay time.Duration) *keyTracker {
	return &keyTracker{delay: delay, lastSeen: make(map[key.Key]time.Time)}
}

func (t *keyTracker) setDelay(d time.Duration) {
	t.delay = d
}

// press records a report of k and returns its down transition. Repeats
// produce another down transition, as auto-repeat does on desktop hosts.
func (t *keyTracker) press(k key.Key, mods key.Modifier, now time.Time) key.Event {
	t.lastSeen[k] = now
	return key.Event{Key: k, Modifiers: mods, Action: key.ActionDown, Timestamp: now}
}

// expire releases keys not reported within the delay, in key order.
func (t *keyTracker) expire(now time.Time) []key.Event {
	var out []key.Event
	for k, seen := range t.lastSeen {
		if now.Sub(seen) >= t.delay {
			out = append(out, key.Event{Key: k, Action: key.ActionUp, Timestamp: now})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	for _, ev := range out {
		delete(t.lastSeen, ev.Key)
	}
	return out
}

// releaseAll releases every held key.
func (t *keyTracker) releaseAll(now time.Time) []key.Event {
	for k := range t.lastSeen {
		t.lastSeen[k] = time.Time{}
	}
	return t.expire(now)
}

func (t *keyTracker) held() int {
	return len(t.lastSeen)
}

// translateKey converts a tcell key report into the transitions it
// implies. Alt reported as a modifier of an arrow key is pressed as a key
// of its own first.
func (t *keyTracker) translateKey(ev *tcell.EventKey, now time.Time) []key.Event {
	k, r := mapTerminalKey(ev)
	mods := mapModifiers(ev.Modifiers())
	switch ev.Key() {
	case tcell.KeyBacktab:
		mods = mods.With(key.ModShift)
	case tcell.KeyCtrlC:
		mods = mods.With(key.ModCtrl)
	}

	var out []key.Event
	if k.IsArrowKey() && mods.Has(key.ModAlt) {
		out = append(out, t.press(key.KeyAlt, mods, now))
	}
	if input.IsTracked(k) {
		out = append(out, t.press(k, mods, now))
		return out
	}
	return append(out, key.Event{Key: k, Rune: r, Modifiers: mods, Action: key.ActionDown, Timestamp: now})
}

func mapTerminalKey(ev *tcell.EventKey) (key.Key, rune) {
	switch ev.Key() {
	case tcell.KeyUp:
		return key.KeyUp, 0
	case tcell.KeyDown:
		return key.KeyDown, 0
	case tcell.KeyLeft:
		return key.KeyLeft, 0
	case tcell.KeyRight:
		return key.KeyRight, 0
	case tcell.KeyEscape:
		return key.KeyEscape, 0
	case tcell.KeyEnter:
		return key.KeyEnter, 0
	case tcell.KeyTab:
		return key.KeyTab, 0
	case tcell.KeyBacktab:
		return key.KeyTab, 0
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.KeyBackspace, 0
	case tcell.KeyDelete:
		return key.KeyDelete, 0
	case tcell.KeyInsert:
		return key.KeyInsert, 0
	case tcell.KeyHome:
		return key.KeyHome, 0
	case tcell.KeyEnd:
		return key.KeyEnd, 0
	case tcell.KeyPgUp:
		return key.KeyPageUp, 0
	case tcell.KeyPgDn:
		return key.KeyPageDown, 0
	case tcell.KeyCtrlC:
		return key.KeyRune, 'c'
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return key.KeySpace, ' '
		}
		return key.KeyRune, ev.Rune()
	default:
		return key.KeyNone, 0
	}
}

func mapModifiers(m tcell.ModMask) key.Modifier {
	mods := key.ModNone
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}
