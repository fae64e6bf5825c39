package tui

import (
	"strings"
	"testing"

	"github.com/nathoo/edencore/content"
	"github.com/nathoo/edencore/engine"
	"github.com/nathoo/edencore/engine/state"
	"github.com/nathoo/edencore/types"
)

func testModel(t *testing.T) Model {
	t.Helper()
	pack, err := content.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	m := New(engine.New(pack, 7), nil)
	m.width = 80
	m.height = 24
	return m
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"Grey fog rolls over the piles of deleted files around you.", 30,
			"Grey fog rolls over the piles\nof deleted files around you."},
		{"", 80, ""},
		{"a b c d e", 3, "a b\nc d\ne"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestNarrativeLines(t *testing.T) {
	lines := narrativeLines("first\nsecond", types.MoodDanger)
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	for _, l := range lines {
		if l.mood != types.MoodDanger {
			t.Errorf("mood = %s", l.mood)
		}
	}

	lore := narrativeLines("RECOVERED FILE: LOG\n\nbody", types.MoodNeutral)
	if lore[0].mood != types.MoodMystic {
		t.Errorf("lore mood = %s, want mystic", lore[0].mood)
	}
}

func TestObjective(t *testing.T) {
	pack, err := content.LoadDefault()
	if err != nil {
		t.Fatal(err)
	}
	g := state.New(pack)

	if got := objective(g); !strings.Contains(got, "Firewall Key") {
		t.Errorf("act 1 objective = %q", got)
	}
	g.AddItem(types.Item{Name: "Firewall Key", Icon: "token"})
	if got := objective(g); !strings.Contains(got, "Firewall Gate") {
		t.Errorf("act 1 keyed objective = %q", got)
	}

	g.SetLocation(types.Location{X: 2, Y: 0, Name: "Neon City Gate"})
	if got := objective(g); !strings.Contains(got, "Admin Keycard") {
		t.Errorf("act 2 objective = %q", got)
	}

	g.SetLocation(types.Location{X: 1, Y: 0, Name: "The White Void"})
	if got := objective(g); !strings.Contains(got, "Terminal Zero") {
		t.Errorf("act 3 objective = %q", got)
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		value, max int
		wantFilled int
	}{
		{100, 100, 10},
		{50, 100, 5},
		{0, 100, 0},
		{80, 80, 10},
		{7, 80, 0},
	}
	for _, tt := range tests {
		bar := renderBar(tt.value, tt.max)
		filled := strings.Count(bar, "█")
		if filled != tt.wantFilled {
			t.Errorf("renderBar(%d, %d) filled %d cells, want %d", tt.value, tt.max, filled, tt.wantFilled)
		}
	}
}

func TestHandleMetaUnknown(t *testing.T) {
	m := testModel(t)
	out, quit := m.handleMeta("/bogus")
	if quit {
		t.Error("unknown command quit the program")
	}
	if len(out) != 1 || !strings.Contains(out[0], "Unknown command") {
		t.Errorf("out = %v", out)
	}
}

func TestHandleMetaQuit(t *testing.T) {
	m := testModel(t)
	if _, quit := m.handleMeta("/quit"); !quit {
		t.Error("/quit did not quit")
	}
}

func TestHandleMetaSaveDisabled(t *testing.T) {
	m := testModel(t)
	out, _ := m.handleMeta("/save")
	if len(out) != 1 || out[0] != "Saving is disabled." {
		t.Errorf("out = %v", out)
	}
}

func TestHandleMetaUse(t *testing.T) {
	m := testModel(t)
	m.engine.Game.HP = 40

	out, _ := m.handleMeta("/use patch 0.1")
	if len(out) != 1 || !strings.Contains(out[0], "Used Patch 0.1.") {
		t.Fatalf("out = %v", out)
	}
	if m.engine.Game.HP != 55 {
		t.Errorf("hp = %d, want 55", m.engine.Game.HP)
	}
}

func TestHandleMetaStats(t *testing.T) {
	m := testModel(t)
	out, _ := m.handleMeta("/stats")
	joined := strings.Join(out, "\n")
	for _, want := range []string{"Recycle Bin", "Stability: 100/100", "Old Debug Tool"} {
		if !strings.Contains(joined, want) {
			t.Errorf("stats missing %q:\n%s", want, joined)
		}
	}
}

func TestHandleMetaRestart(t *testing.T) {
	m := testModel(t)
	m.engine.Game.SetStatus(types.StatusDead)

	out, _ := m.handleMeta("/restart")
	if out[0] != "Session restarted." {
		t.Fatalf("out = %v", out)
	}
	if m.engine.Game.Status != types.StatusPlaying {
		t.Errorf("status after restart = %s", m.engine.Game.Status)
	}
}

func TestHistoryPushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("search")
	h.Push("go north")
	h.Push("hack")

	prev, ok := h.Prev()
	if !ok || prev != "hack" {
		t.Errorf("expected 'hack', got %q (ok=%v)", prev, ok)
	}
	prev, ok = h.Prev()
	if !ok || prev != "go north" {
		t.Errorf("expected 'go north', got %q (ok=%v)", prev, ok)
	}
	prev, ok = h.Prev()
	if !ok || prev != "search" {
		t.Errorf("expected 'search', got %q (ok=%v)", prev, ok)
	}

	// At oldest, stays there.
	prev, ok = h.Prev()
	if !ok || prev != "search" {
		t.Errorf("expected 'search' again, got %q (ok=%v)", prev, ok)
	}
}

func TestHistoryNext(t *testing.T) {
	h := NewHistory(5)
	h.Push("a")
	h.Push("b")

	h.Prev() // b
	h.Prev() // a
	next, ok := h.Next()
	if !ok || next != "b" {
		t.Errorf("expected 'b', got %q (ok=%v)", next, ok)
	}
	if _, ok := h.Next(); ok {
		t.Error("Next past the newest entry should return false")
	}
}

func TestHistorySkipsDuplicatesAndCaps(t *testing.T) {
	h := NewHistory(3)
	h.Push("x")
	h.Push("x")
	if len(h.entries) != 1 {
		t.Errorf("duplicate pushed: %v", h.entries)
	}

	h.Push("y")
	h.Push("z")
	h.Push("w")
	if len(h.entries) != 3 || h.entries[0] != "y" {
		t.Errorf("cap not enforced: %v", h.entries)
	}
}
