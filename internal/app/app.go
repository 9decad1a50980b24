// Package app hosts the root Bubble Tea model: the screen stack, the
// header and footer, and sign-in gating.
package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizly/internal/router"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/screens/home"
	"github.com/abhisek/quizly/internal/screens/signin"
	"github.com/abhisek/quizly/internal/store"
	"github.com/abhisek/quizly/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   screen.Deps
	router *router.Router
	start  screen.Screen
	width  int
	height int
}

// newAppModel starts on the home screen when a user is signed in and on
// the sign-in screen otherwise. start, when non-nil, is pushed over home.
func newAppModel(deps screen.Deps, start screen.Screen) AppModel {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	m := AppModel{deps: deps, start: start}
	if m.signedIn() {
		m.router = router.New(home.New(deps))
	} else {
		m.router = router.New(signin.New(deps.Prefs, deps.Log))
	}
	return m
}

func (m AppModel) signedIn() bool {
	return m.deps.Subscription.UserID() != ""
}

func (m AppModel) Init() tea.Cmd {
	cmd := m.router.Active().Init()
	if m.start == nil || !m.signedIn() {
		return cmd
	}
	start := m.start
	return tea.Batch(cmd, func() tea.Msg { return router.PushScreenMsg{Screen: start} })
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.EscapeCapturer); ok && c.CapturesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}

	case screen.SignedInMsg:
		m.deps.Log.Info("signed in", zap.String("user_id", msg.UserID))
		m.deps.Subscription.SetUser(msg.UserID)
		return m, m.router.Reset(home.New(m.deps))

	case screen.SignedOutMsg:
		if m.deps.Prefs != nil {
			if err := m.deps.Prefs.Delete(context.Background(), store.PrefUserID); err != nil {
				m.deps.Log.Warn("clear signed-in user", zap.Error(err))
			}
		}
		m.deps.Subscription.SetUser("")
		return m, m.router.Reset(signin.New(m.deps.Prefs, m.deps.Log))

	case router.PushScreenMsg, router.ReplaceScreenMsg:
		if !m.signedIn() {
			return m, m.router.Reset(signin.New(m.deps.Prefs, m.deps.Log))
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	var user, badge string
	alert := false
	if m.signedIn() {
		st := m.deps.Subscription.State()
		user = m.deps.Subscription.UserID()
		badge = st.Label()
		alert = !st.CanGenerate
	}
	header := layout.RenderHeader(title, user, badge, alert, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program. start may be nil.
func Run(deps screen.Deps, start screen.Screen) error {
	p := tea.NewProgram(newAppModel(deps, start))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
