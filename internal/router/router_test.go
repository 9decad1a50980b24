package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizly/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title    string
	initRan  bool
	disposed bool
	updates  int
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { s.updates++; return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }
func (s *stubScreen) Dispose()                                { s.disposed = true }

func TestPushRunsInit(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	quiz := &stubScreen{title: "quiz"}
	r.Push(quiz)

	if r.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", r.Depth())
	}
	if r.Active() != quiz {
		t.Errorf("active = %q, want quiz", r.Active().Title())
	}
	if !quiz.initRan {
		t.Error("Init() did not run on pushed screen")
	}
}

func TestPopDisposes(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	quiz := &stubScreen{title: "quiz"}
	r.Push(quiz)
	r.Update(PopScreenMsg{})

	if r.Depth() != 1 || r.Active() != home {
		t.Fatalf("active = %q depth %d, want home at depth 1", r.Active().Title(), r.Depth())
	}
	if !quiz.disposed {
		t.Error("popped screen was not disposed")
	}
	if home.disposed {
		t.Error("remaining screen was disposed")
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("depth = %d after pop at bottom, want 1", r.Depth())
	}
	if home.disposed {
		t.Error("bottom screen must not be disposed")
	}
}

func TestReplaceKeepsDepth(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	create := &stubScreen{title: "create"}
	r.Push(create)

	quiz := &stubScreen{title: "quiz"}
	r.Update(ReplaceScreenMsg{Screen: quiz})

	if r.Depth() != 2 {
		t.Errorf("depth = %d, want 2", r.Depth())
	}
	if r.Active() != quiz || !quiz.initRan {
		t.Error("replacement not active or not initialised")
	}
	if !create.disposed {
		t.Error("replaced screen was not disposed")
	}
}

func TestResetDisposesAll(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	quiz := &stubScreen{title: "quiz"}
	r.Push(quiz)

	signin := &stubScreen{title: "signin"}
	r.Reset(signin)

	if r.Depth() != 1 || r.Active() != signin {
		t.Fatalf("active = %q depth %d, want signin alone", r.Active().Title(), r.Depth())
	}
	if !home.disposed || !quiz.disposed {
		t.Error("reset left screens undisposed")
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	quiz := &stubScreen{title: "quiz"}
	r.Push(quiz)

	r.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if quiz.updates != 1 || home.updates != 0 {
		t.Errorf("updates quiz=%d home=%d, want 1 and 0", quiz.updates, home.updates)
	}
	if got := r.View(80, 24); got != "quiz" {
		t.Errorf("View = %q, want quiz", got)
	}
}
