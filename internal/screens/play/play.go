// Package play runs a quiz in the terminal: timed questions, answer
// feedback, a summary and score submission.
package play

import (
	"context"
	"errors"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/quiz"
	"github.com/abhisek/quizly/internal/router"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/screens/leaderboard"
	"github.com/abhisek/quizly/internal/store"
	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/layout"
)

const tickInterval = 250 * time.Millisecond

// Backend is the subset of the API client used while playing.
type Backend interface {
	Quiz(ctx context.Context, quizID string) (*api.Quiz, error)
	SubmitScore(ctx context.Context, s api.ScoreSubmission) error
	Leaderboard(ctx context.Context, quizID string) ([]api.LeaderboardEntry, error)
}

// Options carries the play screen's collaborators. Prefs and Attempts may
// be nil.
type Options struct {
	Prefs        store.PrefsRepo
	Attempts     store.AttemptRepo
	QuestionTime time.Duration
	Now          func() time.Time
	Log          *zap.Logger
}

// Screen plays one quiz.
type Screen struct {
	backend Backend
	opts    Options
	session *quiz.Session
	ctx     context.Context
	cancel  context.CancelFunc

	cursor     int
	name       components.TextInput
	submitting bool
	result     quiz.Result
	alert      string
	nextBoard  string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Disposer = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a play screen for quizID.
func New(backend Backend, quizID string, opts Options) *Screen {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	name := components.NewTextInput("Your name", false, 40)
	name.Blur()
	if opts.Prefs != nil {
		if v, err := opts.Prefs.Get(ctx, store.PrefPlayerName); err == nil {
			name.SetValue(v)
		}
	}
	return &Screen{
		backend: backend,
		opts:    opts,
		session: quiz.NewSession(quizID, opts.QuestionTime, opts.Now),
		ctx:     ctx,
		cancel:  cancel,
		name:    name,
	}
}

func (s *Screen) Init() tea.Cmd {
	ctx, backend, id := s.ctx, s.backend, s.session.QuizID()
	return func() tea.Msg {
		q, err := backend.Quiz(api.WithPurpose(ctx, "play-quiz"), id)
		return quizLoadedMsg{Quiz: q, Err: err}
	}
}

func (s *Screen) Dispose() { s.cancel() }

func (s *Screen) Title() string {
	if t := s.session.Title(); t != "" && !s.submitting {
		return t
	}
	return "Quiz"
}

// Session exposes the underlying quiz session.
func (s *Screen) Session() *quiz.Session { return s.session }

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.submitting {
		return nil
	}
	switch s.session.Phase() {
	case quiz.Presenting:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "1-9", Description: "Choose"},
			{Key: "Enter", Description: "Lock answer"},
			{Key: "Esc", Description: "Leave"},
		}
	case quiz.AnswerLocked:
		return []layout.KeyHint{{Key: "Enter", Description: "Next question"}}
	case quiz.Completed:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit score"},
			{Key: "Esc", Description: "Leave"},
		}
	case quiz.ScoreSubmitted:
		return []layout.KeyHint{{Key: "Enter", Description: "Leaderboard"}}
	default:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizLoadedMsg:
		return s.handleLoaded(msg)
	case timerTickMsg:
		return s.handleTick(msg)
	case scoreSubmittedMsg:
		return s.handleSubmitted(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if !s.submitting && s.session.Phase() == quiz.Completed {
		var cmd tea.Cmd
		s.name, cmd = s.name.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleLoaded(msg quizLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		if !errors.Is(msg.Err, context.Canceled) {
			s.opts.Log.Warn("fetch quiz", zap.String("quiz_id", s.session.QuizID()), zap.Error(msg.Err))
		}
		s.session.Fail(msg.Err)
		return s, nil
	}
	if err := s.session.Load(msg.Quiz.Title, msg.Quiz.Questions); err != nil {
		return s, nil
	}
	s.cursor = 0
	return s, s.tick()
}

// tick schedules the next countdown check for the current timer.
func (s *Screen) tick() tea.Cmd {
	id := s.session.TimerID()
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return timerTickMsg{ID: id, At: t}
	})
}

func (s *Screen) handleTick(msg timerTickMsg) (screen.Screen, tea.Cmd) {
	if s.submitting || msg.ID != s.session.TimerID() || s.session.Phase() != quiz.Presenting {
		return s, nil
	}
	if s.session.Tick(s.opts.Now()) {
		return s, nil
	}
	return s, s.tick()
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.submitting {
		return s, nil
	}
	key := msg.String()

	switch s.session.Phase() {
	case quiz.Presenting:
		q, _ := s.session.Question()
		choices := q.Choices()
		switch key {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(choices)-1 {
				s.cursor++
			}
		case "enter":
			if s.cursor < len(choices) {
				_ = s.session.Select(choices[s.cursor])
			}
			_, _ = s.session.Submit()
		default:
			if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(choices) {
				s.cursor = n - 1
				_ = s.session.Select(choices[n-1])
			}
		}
		return s, nil

	case quiz.AnswerLocked:
		if key == "enter" || key == "space" || key == "n" {
			if err := s.session.Next(); err != nil {
				return s, nil
			}
			if s.session.Phase() == quiz.Completed {
				s.result = s.session.Result()
				return s, s.name.Focus()
			}
			s.cursor = 0
			return s, s.tick()
		}
		return s, nil

	case quiz.Completed:
		if key == "enter" {
			return s.submit()
		}
		var cmd tea.Cmd
		s.name, cmd = s.name.Update(msg)
		return s, cmd

	case quiz.ScoreSubmitted:
		if key == "enter" && s.nextBoard != "" {
			return s, s.showLeaderboard()
		}
	}
	return s, nil
}

// submit posts the score in the background. The session is not touched by
// the update loop until scoreSubmittedMsg arrives.
func (s *Screen) submit() (screen.Screen, tea.Cmd) {
	s.submitting = true
	s.alert = ""
	ctx, backend, session, name := s.ctx, s.backend, s.session, s.name.Value()
	return s, func() tea.Msg {
		out, err := session.SubmitScore(ctx, backend, name)
		return scoreSubmittedMsg{PlayerName: name, Outcome: out, Err: err}
	}
}

func (s *Screen) handleSubmitted(msg scoreSubmittedMsg) (screen.Screen, tea.Cmd) {
	s.submitting = false
	if msg.Err != nil {
		if errors.Is(msg.Err, quiz.ErrAlreadySubmitted) {
			return s, s.showLeaderboard()
		}
		s.alert = msg.Outcome.Alert
		if s.alert == "" {
			s.alert = msg.Err.Error()
		}
		return s, nil
	}

	s.nextBoard = msg.Outcome.Leaderboard
	s.record(msg.PlayerName, msg.Outcome)

	if msg.Outcome.Err != nil {
		s.opts.Log.Warn("submit score", zap.String("quiz_id", s.session.QuizID()), zap.Error(msg.Outcome.Err))
		s.alert = msg.Outcome.Alert
		return s, nil
	}
	return s, s.showLeaderboard()
}

// record saves the player name and the attempt locally. Failures are
// logged only.
func (s *Screen) record(playerName string, o quiz.Outcome) {
	ctx := context.WithoutCancel(s.ctx)
	if s.opts.Prefs != nil {
		if err := s.opts.Prefs.Set(ctx, store.PrefPlayerName, playerName); err != nil {
			s.opts.Log.Warn("save player name", zap.Error(err))
		}
	}
	if s.opts.Attempts != nil {
		if err := s.opts.Attempts.AppendAttempt(ctx, s.session.Attempt(playerName, o)); err != nil {
			s.opts.Log.Warn("record attempt", zap.Error(err))
		}
	}
}

func (s *Screen) showLeaderboard() tea.Cmd {
	board := leaderboard.New(s.backend, s.session.QuizID(), s.name.Value())
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: board} }
}
