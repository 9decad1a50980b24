package recent

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/router"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/screen/screentest"
	"github.com/abhisek/quizly/internal/screens/flashcards"
	"github.com/abhisek/quizly/internal/screens/leaderboard"
	"github.com/abhisek/quizly/internal/screens/play"
)

const text = "Rivers carry water to the sea. Deltas form where rivers slow down. Floodplains hold fertile soil."

func seed(t *testing.T) screen.Deps {
	t.Helper()
	env := screentest.New(t, 10, "u1")
	for _, owner := range []struct{ user, name string }{{"u1", "Mine"}, {"u2", "Theirs"}} {
		_, err := env.Deps.API.CreateQuiz(context.Background(), api.CreateQuizRequest{
			Text: text, ContentName: owner.name, NumQuestions: 2, NumOptions: 3,
			IncludeFlashcards: true, UserID: owner.user,
		})
		if err != nil {
			t.Fatalf("seed quiz: %v", err)
		}
	}
	return env.Deps
}

func press(s *Screen, k tea.KeyPressMsg) tea.Cmd {
	_, cmd := s.Update(k)
	return cmd
}

func runeKey(r rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: r, Text: string(r)} }

func TestToggleMine(t *testing.T) {
	s := New(seed(t), false)
	s.Update(s.Init()())
	if len(s.quizzes) != 2 {
		t.Fatalf("all quizzes = %d, want 2", len(s.quizzes))
	}

	cmd := press(s, tea.KeyPressMsg{Code: tea.KeyTab})
	if s.Title() != "My Quizzes" || s.loaded {
		t.Fatalf("title=%q loaded=%v", s.Title(), s.loaded)
	}
	s.Update(cmd())
	if len(s.quizzes) != 1 || s.quizzes[0].ContentName != "Mine" {
		t.Errorf("mine = %+v", s.quizzes)
	}
	if view := s.View(100, 30); !strings.Contains(view, "Mine") || strings.Contains(view, "Theirs") {
		t.Errorf("view:\n%s", view)
	}
}

func TestStaleLoadIgnored(t *testing.T) {
	s := New(seed(t), true)
	s.Update(loadedMsg{mine: false, quizzes: []api.RecentQuiz{{QuizID: "x"}}})
	if s.loaded {
		t.Error("result for the other list should be dropped")
	}
}

func TestOpenTargets(t *testing.T) {
	s := New(seed(t), false)
	s.Update(s.Init()())

	cases := []struct {
		key   tea.KeyPressMsg
		check func(screen.Screen) bool
	}{
		{tea.KeyPressMsg{Code: tea.KeyEnter}, func(sc screen.Screen) bool { _, ok := sc.(*play.Screen); return ok }},
		{runeKey('f'), func(sc screen.Screen) bool { _, ok := sc.(*flashcards.Screen); return ok }},
		{runeKey('l'), func(sc screen.Screen) bool { _, ok := sc.(*leaderboard.Screen); return ok }},
	}
	for _, tc := range cases {
		cmd := press(s, tc.key)
		if cmd == nil {
			t.Fatalf("%s: no command", tc.key)
		}
		push, ok := cmd().(router.PushScreenMsg)
		if !ok || !tc.check(push.Screen) {
			t.Errorf("%s pushed %T", tc.key, push.Screen)
		}
	}
}

func TestEmptyList(t *testing.T) {
	s := New(screentest.New(t, 10, "nobody").Deps, true)
	s.Update(s.Init()())
	if cmd := press(s, runeKey('p')); cmd != nil {
		t.Error("nothing to play")
	}
	if view := s.View(80, 20); !strings.Contains(view, "not created any") {
		t.Errorf("view = %q", view)
	}
}
