// Package recent lists recently created quizzes and opens them for play,
// flashcard review or the leaderboard.
package recent

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/router"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/screens/flashcards"
	"github.com/abhisek/quizly/internal/screens/leaderboard"
	"github.com/abhisek/quizly/internal/screens/play"
	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/layout"
	"github.com/abhisek/quizly/internal/ui/theme"
)

type loadedMsg struct {
	mine    bool
	quizzes []api.RecentQuiz
	err     error
}

// Screen shows everyone's recent quizzes or only the signed-in user's.
type Screen struct {
	deps   screen.Deps
	ctx    context.Context
	cancel context.CancelFunc

	mine     bool
	quizzes  []api.RecentQuiz
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Disposer = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the screen. mine starts it on the user's own quizzes.
func New(deps screen.Deps, mine bool) *Screen {
	ctx, cancel := context.WithCancel(context.Background())
	return &Screen{deps: deps, ctx: ctx, cancel: cancel, mine: mine}
}

func (s *Screen) Init() tea.Cmd { return s.load() }

func (s *Screen) Dispose() { s.cancel() }

func (s *Screen) Title() string {
	if s.mine {
		return "My Quizzes"
	}
	return "Recent Quizzes"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	other := "Mine"
	if s.mine {
		other = "All"
	}
	return []layout.KeyHint{
		{Key: "Enter/P", Description: "Play"},
		{Key: "F", Description: "Flashcards"},
		{Key: "L", Description: "Leaderboard"},
		{Key: "Tab", Description: other},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) load() tea.Cmd {
	ctx, client, mine := api.WithPurpose(s.ctx, "recent"), s.deps.API, s.mine
	userID := s.deps.Subscription.UserID()
	return func() tea.Msg {
		var (
			qs  []api.RecentQuiz
			err error
		)
		if mine {
			qs, err = client.UserQuizzes(ctx, userID)
		} else {
			qs, err = client.RecentQuizzes(ctx)
		}
		return loadedMsg{mine: mine, quizzes: qs, err: err}
	}
}

// Selected returns the highlighted quiz, if any.
func (s *Screen) Selected() (api.RecentQuiz, bool) {
	if s.selected < 0 || s.selected >= len(s.quizzes) {
		return api.RecentQuiz{}, false
	}
	return s.quizzes[s.selected], true
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.mine != s.mine {
			return s, nil
		}
		s.loaded = true
		s.errMsg = ""
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.quizzes = msg.quizzes
		if s.selected >= len(s.quizzes) {
			s.selected = 0
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.quizzes)-1 {
				s.selected++
			}
		case "tab":
			s.mine = !s.mine
			s.loaded = false
			s.selected = 0
			return s, s.load()
		case "r":
			s.loaded = false
			return s, s.load()
		case "enter", "p":
			return s, s.open(func(q api.RecentQuiz) screen.Screen {
				return play.New(s.deps.API, q.QuizID, play.Options{
					Prefs:        s.deps.Prefs,
					Attempts:     s.deps.Attempts,
					QuestionTime: s.deps.QuestionTime,
					Log:          s.deps.Log,
				})
			})
		case "f":
			return s, s.open(func(q api.RecentQuiz) screen.Screen {
				return flashcards.New(s.deps.API, q.QuizID, q.ContentName)
			})
		case "l":
			return s, s.open(func(q api.RecentQuiz) screen.Screen {
				return leaderboard.New(s.deps.API, q.QuizID, "")
			})
		}
	}
	return s, nil
}

func (s *Screen) open(build func(api.RecentQuiz) screen.Screen) tea.Cmd {
	q, ok := s.Selected()
	if !ok {
		return nil
	}
	next := build(q)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *Screen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return layout.Message("Failed to load quizzes: "+s.errMsg, theme.Alert, width)
	case !s.loaded:
		return layout.Message("Loading quizzes...", theme.Hint, width)
	case len(s.quizzes) == 0 && s.mine:
		return layout.Message("You have not created any quizzes yet.", theme.Hint, width)
	case len(s.quizzes) == 0:
		return layout.Message("No quizzes yet. Create the first one!", theme.Hint, width)
	}

	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString(components.Heading(fmt.Sprintf("  %-34s %9s %6s", "Quiz", "Questions", "Best")))
	b.WriteString("\n")

	rows := height - 8
	if rows < 1 {
		rows = 1
	}
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := start + rows
	if end > len(s.quizzes) {
		end = len(s.quizzes)
	}
	for i := start; i < end; i++ {
		q := s.quizzes[i]
		line := fmt.Sprintf("%-34s %9d %6d", truncate(q.ContentName, 34), q.TotalQuestions, q.BestScore)
		if i == s.selected {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(strings.TrimRight(b.String(), "\n"), cw))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
