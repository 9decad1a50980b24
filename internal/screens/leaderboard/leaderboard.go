// Package leaderboard shows the scores submitted for a quiz.
package leaderboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/layout"
	"github.com/abhisek/quizly/internal/ui/theme"
)

// Source loads leaderboards.
type Source interface {
	Leaderboard(ctx context.Context, quizID string) ([]api.LeaderboardEntry, error)
}

type loadedMsg struct {
	entries []api.LeaderboardEntry
	err     error
}

// Screen lists a quiz's scores, highest first as returned by the server.
type Screen struct {
	source    Source
	quizID    string
	highlight string
	ctx       context.Context
	cancel    context.CancelFunc

	entries []api.LeaderboardEntry
	loaded  bool
	errMsg  string
	offset  int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Disposer = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a leaderboard screen. highlight, when set, marks that
// player's rows.
func New(source Source, quizID, highlight string) *Screen {
	ctx, cancel := context.WithCancel(context.Background())
	return &Screen{source: source, quizID: quizID, highlight: highlight, ctx: ctx, cancel: cancel}
}

func (s *Screen) Init() tea.Cmd {
	return s.load()
}

func (s *Screen) load() tea.Cmd {
	ctx, source, id := s.ctx, s.source, s.quizID
	return func() tea.Msg {
		entries, err := source.Leaderboard(api.WithPurpose(ctx, "leaderboard"), id)
		return loadedMsg{entries: entries, err: err}
	}
}

func (s *Screen) Dispose() { s.cancel() }

func (s *Screen) Title() string { return "Leaderboard" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "r", Description: "Reload"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		s.errMsg = ""
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.entries = msg.entries
		s.offset = 0
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			if s.offset < len(s.entries)-1 {
				s.offset++
			}
		case "r":
			s.loaded = false
			return s, s.load()
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return layout.Message("Failed to load leaderboard: "+s.errMsg, theme.Alert, width)
	case !s.loaded:
		return layout.Message("Loading leaderboard...", theme.Hint, width)
	case len(s.entries) == 0:
		return layout.Message("No scores yet. Be the first!", theme.Hint, width)
	}

	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString(components.Heading(fmt.Sprintf("%-5s %-24s %6s  %s", "Rank", "Player", "Score", "Played")))
	b.WriteString("\n")

	rows := height - 8
	if rows < 1 {
		rows = 1
	}
	end := s.offset + rows
	if end > len(s.entries) {
		end = len(s.entries)
	}
	for i := s.offset; i < end; i++ {
		e := s.entries[i]
		line := fmt.Sprintf("%-5s %-24s %6d  %s", rank(i), truncate(e.PlayerName, 24), e.Score, playedAt(e.PlayedAt))
		style := theme.Unselected
		if s.highlight != "" && strings.EqualFold(e.PlayerName, s.highlight) {
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(b.String(), cw))
}

func rank(i int) string {
	return fmt.Sprintf("#%d", i+1)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// playedAt shortens a server timestamp for display, passing through
// values it cannot parse.
func playedAt(ts string) string {
	for _, l := range []string{time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(l, ts); err == nil {
			return t.Local().Format("Jan 02 15:04")
		}
	}
	return ts
}
