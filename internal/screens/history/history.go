// Package history lists quiz attempts recorded on this machine.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/router"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/screens/leaderboard"
	"github.com/abhisek/quizly/internal/store"
	"github.com/abhisek/quizly/internal/ui/layout"
	"github.com/abhisek/quizly/internal/ui/theme"
)

// Limit caps how many attempts are loaded.
const Limit = 50

type historyLoadedMsg struct {
	Attempts []store.Attempt
	Err      error
}

// HistoryScreen displays past attempts, newest first.
type HistoryScreen struct {
	attempts store.AttemptRepo
	board    leaderboard.Source

	rows     []store.Attempt
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. board may be nil, which disables the
// leaderboard shortcut.
func New(attempts store.AttemptRepo, board leaderboard.Source) *HistoryScreen {
	return &HistoryScreen{
		attempts: attempts,
		board:    board,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.attempts
	return func() tea.Msg {
		rows, err := repo.RecentAttempts(context.Background(), Limit)
		return historyLoadedMsg{Attempts: rows, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
	}
	if s.board != nil {
		hints = append(hints, layout.KeyHint{Key: "L", Description: "Leaderboard"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

// Selected returns the highlighted attempt, if any.
func (s *HistoryScreen) Selected() (store.Attempt, bool) {
	if s.selected < 0 || s.selected >= len(s.rows) {
		return store.Attempt{}, false
	}
	return s.rows[s.selected], true
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.rows = msg.Attempts
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.rows)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		case "l":
			a, ok := s.Selected()
			if !ok || s.board == nil || a.QuizID == "" {
				return s, nil
			}
			next := leaderboard.New(s.board, a.QuizID, a.PlayerName)
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.rows) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes played yet. Pick one from Recent Quizzes!")
	}

	var b strings.Builder
	b.WriteString("\n")
	center := func(style lipgloss.Style, line string) {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	for i, a := range s.rows {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		title := a.Title
		if title == "" {
			title = a.QuizID
		}
		center(style, fmt.Sprintf("%s%s  %-28s  %d/%d  %d%%",
			prefix, a.Timestamp.Format("Jan 02, 2006"), truncate(title, 28), a.Score, a.Total, a.Accuracy))

		if !s.expanded[i] {
			continue
		}
		detail := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
		center(detail, fmt.Sprintf("    Quiz %s played as %q at %s", a.QuizID, a.PlayerName, a.Timestamp.Format("15:04")))
		switch {
		case a.Submitted:
			center(lipgloss.NewStyle().Foreground(theme.Success), "    Score posted to the leaderboard")
		case a.SubmitError != "":
			center(lipgloss.NewStyle().Foreground(theme.Error), "    Not posted: "+a.SubmitError)
		default:
			center(detail, "    Not posted")
		}
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
