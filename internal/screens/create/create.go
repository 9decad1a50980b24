// Package create is the three-step quiz creation wizard.
package create

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/generation"
	"github.com/abhisek/quizly/internal/router"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/screens/play"
	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/layout"
)

type field int

const (
	fieldName field = iota
	fieldSource
	fieldText
	fieldPDFPath
	fieldStartPage
	fieldEndPage
	fieldType
	fieldOptions
	fieldQuestions
	fieldFlashcards
)

func (f field) step() generation.Step {
	switch f {
	case fieldName:
		return generation.StepDetails
	case fieldSource, fieldText, fieldPDFPath, fieldStartPage, fieldEndPage:
		return generation.StepContent
	default:
		return generation.StepSettings
	}
}

type createdMsg struct {
	resp *api.GenerationResponse
	err  error
}

// Screen walks the user through details, content and settings, then
// submits the quiz through the generation service.
type Screen struct {
	deps   screen.Deps
	ctx    context.Context
	cancel context.CancelFunc

	focus      field
	name       components.TextInput
	source     generation.Source
	text       textarea.Model
	pdfPath    components.TextInput
	startPage  components.TextInput
	endPage    components.TextInput
	qtype      string
	options    components.TextInput
	questions  components.TextInput
	flashcards bool

	submitting bool
	alert      string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Disposer = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the wizard with the initial form values.
func New(deps screen.Deps) *Screen {
	defaults := generation.NewQuizForm()
	ctx, cancel := context.WithCancel(context.Background())

	ta := textarea.New()
	ta.Placeholder = "Paste the material to quiz on..."
	ta.ShowLineNumbers = false
	ta.SetHeight(8)

	s := &Screen{
		deps:       deps,
		ctx:        ctx,
		cancel:     cancel,
		name:       components.NewTextInput("e.g. Cell biology chapter 3", false, 120),
		text:       ta,
		pdfPath:    components.NewTextInput("path/to/document.pdf", false, 0),
		startPage:  components.NewTextInput("1", true, 4),
		endPage:    components.NewTextInput("1", true, 4),
		qtype:      defaults.QuestionType,
		options:    components.NewTextInput(strconv.Itoa(defaults.NumOptions), true, 1),
		questions:  components.NewTextInput(strconv.Itoa(generation.DefaultQuestions), true, 2),
		flashcards: *defaults.IncludeFlashcards,
	}
	s.startPage.SetValue(strconv.Itoa(defaults.StartPage))
	s.endPage.SetValue(strconv.Itoa(defaults.EndPage))
	s.options.SetValue(strconv.Itoa(defaults.NumOptions))
	for _, in := range []*components.TextInput{&s.pdfPath, &s.startPage, &s.endPage, &s.options, &s.questions} {
		in.Blur()
	}
	return s
}

func (s *Screen) Init() tea.Cmd {
	return s.name.Focus()
}

func (s *Screen) Dispose() { s.cancel() }

func (s *Screen) Title() string {
	return "Create Quiz: " + s.focus.step().String()
}

// Step returns the wizard page holding the focused field.
func (s *Screen) Step() generation.Step { return s.focus.step() }

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next"},
		{Key: "Shift+Tab", Description: "Back"},
	}
	switch s.focus {
	case fieldSource, fieldType, fieldFlashcards:
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Change"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+S", Description: "Generate"},
		layout.KeyHint{Key: "Esc", Description: "Cancel"},
	)
}

// visible lists the fields shown for the current source and question type.
func (s *Screen) visible() []field {
	fields := []field{fieldName, fieldSource}
	if s.source == generation.FromPDF {
		fields = append(fields, fieldPDFPath, fieldStartPage, fieldEndPage)
	} else {
		fields = append(fields, fieldText)
	}
	fields = append(fields, fieldType)
	if s.qtype == api.MultipleChoice {
		fields = append(fields, fieldOptions)
	}
	return append(fields, fieldQuestions, fieldFlashcards)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case createdMsg:
		return s.handleCreated(msg)

	case tea.KeyMsg:
		if s.submitting {
			return s, nil
		}
		switch msg.String() {
		case "tab":
			return s, s.move(1)
		case "shift+tab":
			return s, s.move(-1)
		case "ctrl+s":
			return s, s.submit()
		case "enter":
			if s.focus == fieldText {
				break
			}
			if s.focus == fieldFlashcards {
				return s, s.submit()
			}
			return s, s.move(1)
		case "left", "right", "space", " ":
			if s.toggle(msg.String()) {
				return s, nil
			}
		}
	}

	return s, s.updateFocused(msg)
}

// toggle changes the choice fields and reports whether the key was used.
func (s *Screen) toggle(key string) bool {
	switch s.focus {
	case fieldSource:
		if s.source == generation.FromText {
			s.source = generation.FromPDF
		} else {
			s.source = generation.FromText
		}
	case fieldType:
		if s.qtype == api.MultipleChoice {
			s.qtype = api.TrueFalse
		} else {
			s.qtype = api.MultipleChoice
		}
	case fieldFlashcards:
		if key == "left" || key == "right" || key == "space" || key == " " {
			s.flashcards = !s.flashcards
		}
	default:
		return false
	}
	return true
}

func (s *Screen) move(delta int) tea.Cmd {
	fields := s.visible()
	idx := 0
	for i, f := range fields {
		if f == s.focus {
			idx = i
		}
	}
	idx += delta
	if idx < 0 || idx >= len(fields) {
		return nil
	}
	return s.focusField(fields[idx])
}

func (s *Screen) focusField(f field) tea.Cmd {
	s.blurAll()
	s.focus = f
	switch f {
	case fieldName:
		return s.name.Focus()
	case fieldText:
		return s.text.Focus()
	case fieldPDFPath:
		return s.pdfPath.Focus()
	case fieldStartPage:
		return s.startPage.Focus()
	case fieldEndPage:
		return s.endPage.Focus()
	case fieldOptions:
		return s.options.Focus()
	case fieldQuestions:
		return s.questions.Focus()
	}
	return nil
}

func (s *Screen) blurAll() {
	s.name.Blur()
	s.text.Blur()
	s.pdfPath.Blur()
	s.startPage.Blur()
	s.endPage.Blur()
	s.options.Blur()
	s.questions.Blur()
}

func (s *Screen) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.focus {
	case fieldName:
		s.name, cmd = s.name.Update(msg)
	case fieldText:
		s.text, cmd = s.text.Update(msg)
	case fieldPDFPath:
		s.pdfPath, cmd = s.pdfPath.Update(msg)
	case fieldStartPage:
		s.startPage, cmd = s.startPage.Update(msg)
	case fieldEndPage:
		s.endPage, cmd = s.endPage.Update(msg)
	case fieldOptions:
		s.options, cmd = s.options.Update(msg)
	case fieldQuestions:
		s.questions, cmd = s.questions.Update(msg)
	}
	return cmd
}

// Form builds the generation form from the inputs. An empty question count
// stays unset so validation can ask for it.
func (s *Screen) Form() generation.QuizForm {
	f := generation.NewQuizForm()
	f.ContentName = s.name.Value()
	f.Source = s.source
	f.Text = s.text.Value()
	f.QuestionType = s.qtype
	if n, err := s.options.NumericValue(); err == nil {
		f.NumOptions = n
	}
	if n, err := s.questions.NumericValue(); err == nil {
		f.NumQuestions = &n
	}
	flash := s.flashcards
	f.IncludeFlashcards = &flash
	if s.source == generation.FromPDF {
		f.PDFName = filepath.Base(strings.TrimSpace(s.pdfPath.Value()))
		f.StartPage, _ = s.startPage.NumericValue()
		f.EndPage, _ = s.endPage.NumericValue()
	}
	return f
}

func (s *Screen) submit() tea.Cmd {
	form := s.Form()
	if err := form.Validate(); err != nil && !isMissingPDF(err) {
		return s.fail(err)
	}

	var file *os.File
	if form.Source == generation.FromPDF {
		path := strings.TrimSpace(s.pdfPath.Value())
		if path != "" {
			f, err := os.Open(path)
			if err != nil {
				s.alert = "Could not open PDF: " + err.Error()
				return s.focusField(fieldPDFPath)
			}
			file = f
			form.PDF = f
		}
	}

	s.submitting = true
	s.alert = ""
	ctx, svc := s.ctx, s.deps.Generation
	userID := s.deps.Subscription.UserID()
	return func() tea.Msg {
		if file != nil {
			defer file.Close()
		}
		resp, err := svc.CreateQuiz(ctx, userID, form)
		return createdMsg{resp: resp, err: err}
	}
}

// isMissingPDF lets a PDF form through local validation before the file is
// opened; the service validates again with the file attached.
func isMissingPDF(err error) bool {
	var ve *generation.ValidationError
	return errors.As(err, &ve) && ve.Field == "pdf"
}

func (s *Screen) fail(err error) tea.Cmd {
	s.alert = generation.Alert(err)
	var ve *generation.ValidationError
	if errors.As(err, &ve) {
		for _, f := range s.visible() {
			if f.step() == ve.Step {
				return s.focusField(f)
			}
		}
	}
	return nil
}

func (s *Screen) handleCreated(msg createdMsg) (screen.Screen, tea.Cmd) {
	s.submitting = false
	if msg.err != nil {
		if !errors.Is(msg.err, context.Canceled) {
			s.deps.Log.Warn("create quiz", zap.Error(msg.err))
		}
		return s, s.fail(msg.err)
	}

	svc := s.deps.Generation
	followUp := func() tea.Msg {
		svc.FollowUpRefresh(context.Background())
		return screen.QuotaChangedMsg{}
	}
	next := play.New(s.deps.API, msg.resp.QuizID, play.Options{
		Prefs:        s.deps.Prefs,
		Attempts:     s.deps.Attempts,
		QuestionTime: s.deps.QuestionTime,
		Log:          s.deps.Log,
	})
	return s, tea.Batch(
		func() tea.Msg { return screen.QuotaChangedMsg{} },
		followUp,
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
	)
}
