// Package signin asks for the user id and player name before any other
// screen is reachable.
package signin

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/store"
	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/layout"
	"github.com/abhisek/quizly/internal/ui/theme"
)

const (
	fieldUser = iota
	fieldName
)

// Screen collects the identity used for quota tracking and leaderboards.
type Screen struct {
	prefs  store.PrefsRepo
	log    *zap.Logger
	inputs [2]components.TextInput
	focus  int
	alert  string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the sign-in screen, prefilled from saved preferences.
func New(prefs store.PrefsRepo, log *zap.Logger) *Screen {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Screen{prefs: prefs, log: log}
	s.inputs[fieldUser] = components.NewTextInput("user id or email", false, 128)
	s.inputs[fieldName] = components.NewTextInput("display name for leaderboards", false, 40)
	s.inputs[fieldName].Blur()

	if prefs != nil {
		ctx := context.Background()
		if v, err := prefs.Get(ctx, store.PrefUserID); err == nil {
			s.inputs[fieldUser].SetValue(v)
		}
		if v, err := prefs.Get(ctx, store.PrefPlayerName); err == nil {
			s.inputs[fieldName].SetValue(v)
		}
	}
	return s
}

func (s *Screen) Init() tea.Cmd {
	return s.inputs[fieldUser].Focus()
}

func (s *Screen) Title() string { return "Sign in" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Sign in"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "down", "shift+tab", "up":
			return s, s.switchFocus()
		case "enter":
			if s.focus == fieldUser && strings.TrimSpace(s.inputs[fieldName].Value()) == "" {
				return s, s.switchFocus()
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *Screen) switchFocus() tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = 1 - s.focus
	return s.inputs[s.focus].Focus()
}

func (s *Screen) submit() tea.Cmd {
	userID := strings.TrimSpace(s.inputs[fieldUser].Value())
	if userID == "" {
		s.alert = "Please enter your user id."
		return nil
	}
	name := strings.TrimSpace(s.inputs[fieldName].Value())

	if s.prefs != nil {
		ctx := context.Background()
		if err := s.prefs.Set(ctx, store.PrefUserID, userID); err != nil {
			s.log.Warn("save user id", zap.Error(err))
		}
		if name != "" {
			if err := s.prefs.Set(ctx, store.PrefPlayerName, name); err != nil {
				s.log.Warn("save player name", zap.Error(err))
			}
		}
	}
	return func() tea.Msg { return screen.SignedInMsg{UserID: userID} }
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if cw > 56 {
		cw = 56
	}

	labels := [2]string{"User ID", "Player name (optional)"}
	form := ""
	for i, in := range s.inputs {
		style := theme.Subtitle
		if i == s.focus {
			style = theme.Selected
		}
		form += style.Render(labels[i]) + "\n" + in.View() + "\n\n"
	}
	if s.alert != "" {
		form += theme.Alert.Render(s.alert)
	}

	content := RenderBanner(width) + "\n\n" +
		theme.Subtitle.Render("Create quizzes from your notes and compete on leaderboards") + "\n\n" +
		components.Card(form, cw)
	return layout.Centered(content, width, height)
}
