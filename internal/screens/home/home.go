package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/dashboard"
	"github.com/abhisek/quizly/internal/router"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/screens/create"
	"github.com/abhisek/quizly/internal/screens/flashcards"
	"github.com/abhisek/quizly/internal/screens/history"
	"github.com/abhisek/quizly/internal/screens/mocktest"
	"github.com/abhisek/quizly/internal/screens/plans"
	"github.com/abhisek/quizly/internal/screens/recent"
	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/layout"
)

type previewsMsg struct {
	cards []api.Flashcard
	err   error
}

// HomeScreen is the main menu shown after sign-in.
type HomeScreen struct {
	deps   screen.Deps
	ctx    context.Context
	cancel context.CancelFunc

	menu       components.Menu
	menuLabels []string

	previews       []api.Flashcard
	previewsLoaded bool
	previewErr     string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Disposer = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screen.Deps) *HomeScreen {
	ctx, cancel := context.WithCancel(context.Background())
	h := &HomeScreen{deps: deps, ctx: ctx, cancel: cancel}

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			next := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}
	}

	items := []components.MenuItem{
		{Label: "CREATE QUIZ", Action: push(func() screen.Screen { return create.New(deps) })},
		{Label: "RECENT QUIZZES", Action: push(func() screen.Screen { return recent.New(deps, false) })},
		{Label: "MY QUIZZES", Action: push(func() screen.Screen { return recent.New(deps, true) })},
		{Label: "MOCK TEST", Action: push(func() screen.Screen { return mocktest.New(deps) })},
		{Label: "PLANS", Action: push(func() screen.Screen { return plans.New(deps) })},
		{Label: "HISTORY", Action: push(func() screen.Screen { return history.New(deps.Attempts, deps.API) })},
		{Label: "SIGN OUT", Action: func() tea.Cmd {
			return func() tea.Msg { return screen.SignedOutMsg{} }
		}},
		{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	}
	for _, item := range items {
		h.menuLabels = append(h.menuLabels, item.Label)
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	ctx, sub := h.ctx, h.deps.Subscription
	client, log := h.deps.API, h.deps.Log
	return tea.Batch(
		func() tea.Msg {
			sub.Refresh(ctx)
			return screen.QuotaChangedMsg{}
		},
		func() tea.Msg {
			cards, err := dashboard.Previews(ctx, client, dashboard.DefaultLimit, log)
			return previewsMsg{cards: cards, err: err}
		},
	)
}

func (h *HomeScreen) Dispose() { h.cancel() }

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
	if len(h.previews) > 0 {
		hints = append(hints, layout.KeyHint{Key: "1-5", Description: "Flashcards"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case previewsMsg:
		h.previewsLoaded = true
		if msg.err != nil {
			h.deps.Log.Warn("load flashcard previews", zap.Error(msg.err))
			h.previewErr = "Could not load recent quizzes"
			return h, nil
		}
		h.previews = msg.cards
		return h, nil

	case tea.KeyMsg:
		if k := msg.String(); len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			i := int(k[0] - '1')
			if i < len(h.previews) {
				card := h.previews[i]
				next := flashcards.New(h.deps.API, card.QuizID, card.QuizTitle)
				return h, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 34 || width < 100

	cw := contentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	sections = append(sections, renderQuotaBar(h.deps.Subscription.State(), cw, compact))
	if !compact {
		sections = append(sections, renderPreviews(h.previews, h.previewsLoaded, h.previewErr, cw))
	}
	if compact {
		sections = append(sections, renderMenuCompact(h.menuLabels, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw))
	}

	return renderCabinetFrame(strings.Join(sections, "\n\n"), width, height)
}
