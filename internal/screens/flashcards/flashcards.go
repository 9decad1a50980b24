// Package flashcards lets the player flip through a quiz's flashcards.
package flashcards

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/layout"
	"github.com/abhisek/quizly/internal/ui/theme"
)

// Source loads flashcards.
type Source interface {
	Flashcards(ctx context.Context, quizID string) ([]api.Flashcard, error)
}

type loadedMsg struct {
	cards []api.Flashcard
	err   error
}

// Screen shows one card at a time, term first.
type Screen struct {
	source Source
	quizID string
	title  string
	ctx    context.Context
	cancel context.CancelFunc

	cards   []api.Flashcard
	index   int
	flipped bool
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Disposer = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a flashcards screen for quizID. title is shown above the
// cards when known.
func New(source Source, quizID, title string) *Screen {
	ctx, cancel := context.WithCancel(context.Background())
	return &Screen{source: source, quizID: quizID, title: title, ctx: ctx, cancel: cancel}
}

func (s *Screen) Init() tea.Cmd {
	ctx, source, id := s.ctx, s.source, s.quizID
	return func() tea.Msg {
		cards, err := source.Flashcards(api.WithPurpose(ctx, "flashcards"), id)
		return loadedMsg{cards: cards, err: err}
	}
}

func (s *Screen) Dispose() { s.cancel() }

func (s *Screen) Title() string { return "Flashcards" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Space", Description: "Flip"},
		{Key: "←→", Description: "Prev/Next"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.cards = msg.cards
		return s, nil

	case tea.KeyMsg:
		if len(s.cards) == 0 {
			return s, nil
		}
		switch msg.String() {
		case "space", " ", "enter":
			s.flipped = !s.flipped
		case "right", "l", "n":
			if s.index < len(s.cards)-1 {
				s.index++
				s.flipped = false
			}
		case "left", "h", "p":
			if s.index > 0 {
				s.index--
				s.flipped = false
			}
		}
	}
	return s, nil
}

// Current returns the card on display and whether its definition is showing.
func (s *Screen) Current() (api.Flashcard, bool, bool) {
	if s.index >= len(s.cards) {
		return api.Flashcard{}, false, false
	}
	return s.cards[s.index], s.flipped, true
}

func (s *Screen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return layout.Message("Failed to load flashcards: "+s.errMsg, theme.Alert, width)
	case !s.loaded:
		return layout.Message("Loading flashcards...", theme.Hint, width)
	case len(s.cards) == 0:
		return layout.Message("This quiz has no flashcards.", theme.Hint, width)
	}

	card := s.cards[s.index]
	cw := components.ContentWidth(width)

	side, text := "TERM", card.Term
	if s.flipped {
		side, text = "DEFINITION", card.Definition
	}
	body := theme.Subtitle.Render(side) + "\n\n" +
		lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Width(cw-6).Render(text)

	header := s.title
	if header == "" {
		header = card.QuizTitle
	}
	counter := theme.Hint.Render(fmt.Sprintf("Card %d of %d", s.index+1, len(s.cards)))

	var content string
	if s.flipped {
		content = components.HighlightCard(body, cw)
	} else {
		content = components.Card(body, cw)
	}
	if header != "" {
		content = components.Heading(header) + "\n\n" + content
	}
	return layout.Centered(content+"\n"+counter, width, height)
}
