package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizly/internal/ui/theme"
)

func TestOptionListMarksAfterReveal(t *testing.T) {
	o := OptionList{Options: []string{"Paris", "Rome", "Oslo"}, Chosen: "Rome", Answer: "Paris", Reveal: true}
	lines := strings.Split(strings.TrimRight(o.View(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[0], "✓") {
		t.Errorf("answer line %q lacks ✓", lines[0])
	}
	if !strings.Contains(lines[1], "✗") {
		t.Errorf("wrong choice line %q lacks ✗", lines[1])
	}
	if strings.ContainsAny(lines[2], "✓✗") {
		t.Errorf("unrelated line %q is marked", lines[2])
	}
}

func TestOptionListHidesAnswerBeforeReveal(t *testing.T) {
	o := OptionList{Options: []string{"Paris", "Rome"}, Cursor: 1, Answer: "Paris"}
	v := o.View()
	if strings.ContainsAny(v, "✓✗") {
		t.Errorf("markers shown before reveal: %q", v)
	}
	if !strings.Contains(v, "▸ B)") {
		t.Errorf("cursor not on B: %q", v)
	}
}

func TestLabel(t *testing.T) {
	if Label(0) != "A" || Label(3) != "D" || Label(26) != "27" {
		t.Errorf("labels = %q %q %q", Label(0), Label(3), Label(26))
	}
}

func TestTimerBarTurnsRed(t *testing.T) {
	if bar := TimerBar(20, 30, 40); bar.Fill != theme.Secondary {
		t.Error("timer bar should use the normal fill with time left")
	}
	if bar := TimerBar(5, 30, 40); bar.Fill != theme.Error {
		t.Error("timer bar should turn red near the end")
	}
	if got := TimerBar(0, 0, 40).Percent; got != 0 {
		t.Errorf("percent = %v with zero total, want 0", got)
	}
}

func TestMenuSkipsDisabled(t *testing.T) {
	var picked string
	m := NewMenu([]MenuItem{
		{Label: "Create", Disabled: true},
		{Label: "Recent", Action: func() tea.Cmd { picked = "recent"; return nil }},
		{Label: "Locked", Disabled: true},
		{Label: "Quit", Action: func() tea.Cmd { picked = "quit"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("selected = %d, want first enabled item", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Fatalf("selected = %d after down, want 3", m.Selected)
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if picked != "quit" {
		t.Errorf("picked = %q, want quit", picked)
	}
}
