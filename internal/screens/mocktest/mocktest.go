// Package mocktest generates downloadable mock tests and lists the ones the
// user already has.
package mocktest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/generation"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/layout"
)

type mode int

const (
	modeForm mode = iota
	modeResult
	modeList
)

type field int

const (
	fieldTopic field = iota
	fieldDescription
	fieldDifficulty
	fieldQuestions
	fieldCount
)

type generatedMsg struct {
	resp *api.MockTestResponse
	err  error
}

type listedMsg struct {
	seq   int
	tests []api.UserMockTest
	err   error
}

type downloadedMsg struct {
	seq  int
	path string
	err  error
}

// Screen is the mock test generator.
type Screen struct {
	deps   screen.Deps
	ctx    context.Context
	cancel context.CancelFunc

	mode mode

	focus       field
	topic       components.TextInput
	description components.TextInput
	difficulty  int
	questions   components.TextInput

	result *api.MockTestResponse

	tests    []api.UserMockTest
	selected int
	listed   bool

	busy   bool
	seq    int
	alert  string
	notice string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Disposer = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.EscapeCapturer = (*Screen)(nil)

// New creates the screen on an empty form.
func New(deps screen.Deps) *Screen {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Screen{
		deps:        deps,
		ctx:         ctx,
		cancel:      cancel,
		topic:       components.NewTextInput("e.g. Operating systems", false, 100),
		description: components.NewTextInput("What should the test cover?", false, 400),
		questions:   components.NewTextInput(strconv.Itoa(generation.DefaultQuestions), true, 2),
	}
	for i, d := range generation.Difficulties {
		if d == generation.DefaultDifficulty {
			s.difficulty = i
		}
	}
	s.description.Blur()
	s.questions.Blur()
	return s
}

func (s *Screen) Init() tea.Cmd { return s.topic.Focus() }

func (s *Screen) Dispose() { s.cancel() }

func (s *Screen) Title() string {
	switch s.mode {
	case modeResult:
		return "Mock Test Ready"
	case modeList:
		return "My Mock Tests"
	}
	return "Mock Test"
}

// CapturesEscape keeps Esc inside the screen while it shows a result or
// the list, so Esc returns to the form first.
func (s *Screen) CapturesEscape() bool { return s.mode != modeForm }

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeResult:
		return []layout.KeyHint{
			{Key: "D", Description: "Download PDF"},
			{Key: "M", Description: "My tests"},
			{Key: "Esc", Description: "New test"},
		}
	case modeList:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "D", Description: "Download PDF"},
			{Key: "Esc", Description: "Back to form"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Difficulty"},
		{Key: "Ctrl+S", Description: "Generate"},
		{Key: "Ctrl+L", Description: "My tests"},
		{Key: "Esc", Description: "Back"},
	}
}

// Form returns the generator input built from the fields.
func (s *Screen) Form() generation.MockTestForm {
	n, _ := s.questions.NumericValue()
	return generation.MockTestForm{
		Topic:        s.topic.Value(),
		Description:  s.description.Value(),
		Difficulty:   generation.Difficulties[s.difficulty],
		NumQuestions: n,
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		return s, s.handleGenerated(msg)
	case listedMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.busy = false
		s.listed = true
		if msg.err != nil {
			s.alert = "Failed to load your mock tests: " + msg.err.Error()
			return s, nil
		}
		s.tests = msg.tests
		if s.selected >= len(s.tests) {
			s.selected = 0
		}
		return s, nil
	case downloadedMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.busy = false
		if msg.err != nil {
			s.alert = "Download failed: " + msg.err.Error()
			return s, nil
		}
		s.alert = ""
		s.notice = "Saved to " + msg.path
		return s, nil

	case tea.KeyMsg:
		if s.busy && s.mode != modeForm && msg.String() == "esc" {
			s.abort()
		}
		if s.busy {
			return s, nil
		}
		switch s.mode {
		case modeResult:
			return s, s.resultKey(msg.String())
		case modeList:
			return s, s.listKey(msg.String())
		}
		if cmd, ok := s.formKey(msg.String()); ok {
			return s, cmd
		}
	}

	if s.mode == modeForm {
		return s, s.updateFocused(msg)
	}
	return s, nil
}

func (s *Screen) formKey(key string) (tea.Cmd, bool) {
	switch key {
	case "tab", "down":
		return s.focusField((s.focus + 1) % fieldCount), true
	case "shift+tab", "up":
		return s.focusField((s.focus + fieldCount - 1) % fieldCount), true
	case "left":
		if s.focus == fieldDifficulty && s.difficulty > 0 {
			s.difficulty--
			return nil, true
		}
	case "right":
		if s.focus == fieldDifficulty && s.difficulty < len(generation.Difficulties)-1 {
			s.difficulty++
			return nil, true
		}
	case "enter":
		if s.focus == fieldQuestions {
			return s.generate(), true
		}
		return s.focusField(s.focus + 1), true
	case "ctrl+s":
		return s.generate(), true
	case "ctrl+l":
		return s.showList(), true
	}
	return nil, false
}

func (s *Screen) resultKey(key string) tea.Cmd {
	switch key {
	case "d":
		return s.download(s.result.TestID)
	case "m":
		return s.showList()
	case "esc":
		s.reset()
		return s.focusField(fieldTopic)
	}
	return nil
}

func (s *Screen) listKey(key string) tea.Cmd {
	switch key {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.tests)-1 {
			s.selected++
		}
	case "d", "enter":
		if s.selected < len(s.tests) {
			return s.download(s.tests[s.selected].TestID)
		}
	case "r":
		return s.showList()
	case "esc":
		s.mode = modeForm
		s.alert, s.notice = "", ""
		return s.focusField(s.focus)
	}
	return nil
}

func (s *Screen) focusField(f field) tea.Cmd {
	s.focus = f
	s.topic.Blur()
	s.description.Blur()
	s.questions.Blur()
	switch f {
	case fieldTopic:
		return s.topic.Focus()
	case fieldDescription:
		return s.description.Focus()
	case fieldQuestions:
		return s.questions.Focus()
	}
	return nil
}

func (s *Screen) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.focus {
	case fieldTopic:
		s.topic, cmd = s.topic.Update(msg)
	case fieldDescription:
		s.description, cmd = s.description.Update(msg)
	case fieldQuestions:
		s.questions, cmd = s.questions.Update(msg)
	}
	return cmd
}

// abort cancels the in-flight list load or download. Replies issued before
// the abort are dropped by sequence number.
func (s *Screen) abort() {
	s.cancel()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.seq++
	s.busy = false
}

func (s *Screen) reset() {
	s.mode = modeForm
	s.result = nil
	s.alert, s.notice = "", ""
	s.topic.SetValue("")
	s.description.SetValue("")
	s.questions.SetValue("")
}

func (s *Screen) generate() tea.Cmd {
	form := s.Form()
	if err := form.Validate(); err != nil {
		s.alert = generation.Alert(err)
		var ve *generation.ValidationError
		if errors.As(err, &ve) && ve.Field == "description" {
			return s.focusField(fieldDescription)
		}
		return s.focusField(fieldTopic)
	}

	s.busy = true
	s.alert, s.notice = "", ""
	ctx, svc, userID := s.ctx, s.deps.Generation, s.deps.Subscription.UserID()
	return func() tea.Msg {
		resp, err := svc.GenerateMockTest(ctx, userID, form)
		return generatedMsg{resp: resp, err: err}
	}
}

func (s *Screen) handleGenerated(msg generatedMsg) tea.Cmd {
	s.busy = false
	if msg.err != nil {
		if !errors.Is(msg.err, context.Canceled) {
			s.deps.Log.Warn("generate mock test", zap.Error(msg.err))
		}
		s.alert = generation.Alert(msg.err)
		return nil
	}
	s.result = msg.resp
	s.mode = modeResult
	s.notice = msg.resp.Message

	svc := s.deps.Generation
	return tea.Batch(
		func() tea.Msg { return screen.QuotaChangedMsg{} },
		func() tea.Msg {
			svc.FollowUpRefresh(context.Background())
			return screen.QuotaChangedMsg{}
		},
	)
}

func (s *Screen) showList() tea.Cmd {
	s.mode = modeList
	s.busy = true
	s.alert, s.notice = "", ""
	ctx, client, userID, seq := api.WithPurpose(s.ctx, "mock-test-list"), s.deps.API, s.deps.Subscription.UserID(), s.seq
	return func() tea.Msg {
		tests, err := client.UserMockTests(ctx, userID)
		return listedMsg{seq: seq, tests: tests, err: err}
	}
}

// DownloadPath is where a mock test PDF is saved.
func (s *Screen) DownloadPath(testID string) string {
	dir := s.deps.DownloadDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, fmt.Sprintf("mock-test-%s.pdf", testID))
}

func (s *Screen) download(testID string) tea.Cmd {
	s.busy = true
	s.alert, s.notice = "", ""
	ctx, client, path, seq := api.WithPurpose(s.ctx, "mock-test-download"), s.deps.API, s.DownloadPath(testID), s.seq
	return func() tea.Msg {
		return downloadedMsg{seq: seq, path: path, err: saveTo(ctx, client, testID, path)}
	}
}

func saveTo(ctx context.Context, client *api.Client, testID, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := client.DownloadMockTest(ctx, testID, f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
