package app

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/graphnudge/internal/host"
	"github.com/dshills/graphnudge/internal/input/key"
)

func TestKeyTrackerExpire(t *testing.T) {
	kt := newKeyTracker(100 * time.Millisecond)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	kt.press(key.KeyRight, key.ModNone, t0)
	kt.press(key.KeyUp, key.ModNone, t0.Add(50*time.Millisecond))

	if got := kt.expire(t0.Add(99 * time.Millisecond)); len(got) != 0 {
		t.Errorf("expired early: %v", got)
	}
	got := kt.expire(t0.Add(100 * time.Millisecond))
	if len(got) != 1 || got[0].Key != key.KeyRight || !got[0].IsUp() {
		t.Errorf("expire = %v, want Right up", got)
	}
	if kt.held() != 1 {
		t.Errorf("held = %d, want 1", kt.held())
	}

	kt.press(key.KeyLeft, key.ModNone, t0.Add(60*time.Millisecond))
	got = kt.releaseAll(t0.Add(70 * time.Millisecond))
	if len(got) != 2 || got[0].Key != key.KeyUp || got[1].Key != key.KeyLeft {
		t.Errorf("releaseAll = %v, want Up then Left", got)
	}
	if kt.held() != 0 {
		t.Error("releaseAll left keys held")
	}
}

func TestTranslateKey(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want []key.Event
	}{
		{
			name: "arrow",
			ev:   tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone),
			want: []key.Event{{Key: key.KeyRight, Action: key.ActionDown}},
		},
		{
			name: "alt arrow",
			ev:   tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModAlt),
			want: []key.Event{
				{Key: key.KeyAlt, Modifiers: key.ModAlt, Action: key.ActionDown},
				{Key: key.KeyDown, Modifiers: key.ModAlt, Action: key.ActionDown},
			},
		},
		{
			name: "rune",
			ev:   tcell.NewEventKey(tcell.KeyRune, 'u', tcell.ModNone),
			want: []key.Event{{Key: key.KeyRune, Rune: 'u', Action: key.ActionDown}},
		},
		{
			name: "space",
			ev:   tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone),
			want: []key.Event{{Key: key.KeySpace, Rune: ' ', Action: key.ActionDown}},
		},
		{
			name: "backtab",
			ev:   tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone),
			want: []key.Event{{Key: key.KeyTab, Modifiers: key.ModShift, Action: key.ActionDown}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kt := newKeyTracker(time.Second)
			got := kt.translateKey(tt.ev, now)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				w := tt.want[i]
				w.Timestamp = now
				if got[i] != w {
					t.Errorf("event %d = %+v, want %+v", i, got[i], w)
				}
			}
		})
	}
}

func TestPipelineStopsAtUsedEvent(t *testing.T) {
	p := NewPipeline(nil)
	var calls []string
	p.AddHandler(func(ev *host.Event) { calls = append(calls, "first") })
	p.AddHandler(func(ev *host.Event) { panic("broken handler") })
	p.AddHandler(func(ev *host.Event) {
		calls = append(calls, "third")
		ev.Use()
	})
	p.AddHandler(func(ev *host.Event) { calls = append(calls, "fourth") })
	p.AddHandler(nil)

	if p.Len() != 4 {
		t.Errorf("Len = %d, want 4", p.Len())
	}
	if !p.Dispatch(host.KeyEvent(key.Down(key.KeyUp))) {
		t.Error("Dispatch should report the event used")
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "third" {
		t.Errorf("calls = %v", calls)
	}
}
