package create

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/generation"
	"github.com/abhisek/quizly/internal/router"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/screen/screentest"
	"github.com/abhisek/quizly/internal/screens/play"
)

const material = `The mitochondria produces energy for the cell. Ribosomes assemble proteins from amino acids.
The nucleus stores genetic information. Chloroplasts capture sunlight in plant cells.`

func newDeps(t *testing.T, quota int) screen.Deps {
	return screentest.New(t, quota, "u1").Deps
}

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func ctrlS() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
}

func TestEmptyFormStaysOnDetails(t *testing.T) {
	s := New(newDeps(t, 10))
	s.Init()

	s.Update(ctrlS())
	if s.alert != "Please provide a quiz name" {
		t.Errorf("alert = %q", s.alert)
	}
	if s.Step() != generation.StepDetails {
		t.Errorf("step = %v, want details", s.Step())
	}
	if s.submitting {
		t.Error("should not submit an invalid form")
	}
}

func TestMissingCountJumpsToSettings(t *testing.T) {
	s := New(newDeps(t, 10))
	s.name.SetValue("Cells")
	s.text.SetValue(material)

	s.Update(ctrlS())
	if s.Step() != generation.StepSettings {
		t.Errorf("step = %v, want settings", s.Step())
	}
	if s.focus != fieldType {
		t.Errorf("focus = %v, want first settings field", s.focus)
	}
	if !strings.Contains(s.alert, "number of questions") {
		t.Errorf("alert = %q", s.alert)
	}
}

func TestTabWalksVisibleFields(t *testing.T) {
	s := New(newDeps(t, 10))

	s.Update(key(tea.KeyTab))
	if s.focus != fieldSource || s.Step() != generation.StepContent {
		t.Fatalf("focus = %v", s.focus)
	}
	s.Update(key(tea.KeyRight))
	if s.source != generation.FromPDF {
		t.Fatal("right should switch the source to PDF")
	}
	s.Update(key(tea.KeyTab))
	if s.focus != fieldPDFPath {
		t.Errorf("focus = %v, want pdf path", s.focus)
	}

	// True/false hides the options count.
	s.qtype = api.TrueFalse
	for _, f := range s.visible() {
		if f == fieldOptions || f == fieldText {
			t.Errorf("field %v should be hidden", f)
		}
	}

	s.focus = fieldName
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if s.focus != fieldName {
		t.Errorf("shift+tab past the first field moved focus to %v", s.focus)
	}
}

func TestFormMapsInputs(t *testing.T) {
	s := New(newDeps(t, 10))
	s.name.SetValue("Cells")
	s.source = generation.FromPDF
	s.pdfPath.SetValue(" /tmp/notes/biology.pdf ")
	s.startPage.SetValue("2")
	s.endPage.SetValue("6")
	s.questions.SetValue("12")
	s.flashcards = true

	f := s.Form()
	if f.PDFName != "biology.pdf" || f.StartPage != 2 || f.EndPage != 6 {
		t.Errorf("pdf fields = %q %d-%d", f.PDFName, f.StartPage, f.EndPage)
	}
	if f.NumQuestions == nil || *f.NumQuestions != 12 {
		t.Errorf("questions = %v", f.NumQuestions)
	}
	if !*f.IncludeFlashcards || f.NumOptions != generation.DefaultOptions {
		t.Errorf("settings = %+v", f)
	}
}

func TestMissingPDFFile(t *testing.T) {
	s := New(newDeps(t, 10))
	s.name.SetValue("Cells")
	s.source = generation.FromPDF
	s.pdfPath.SetValue("/does/not/exist.pdf")
	s.questions.SetValue("5")

	if cmd := s.submit(); s.submitting {
		t.Fatalf("submitted with an unreadable file, cmd=%v", cmd)
	}
	if !strings.HasPrefix(s.alert, "Could not open PDF") {
		t.Errorf("alert = %q", s.alert)
	}
	if s.focus != fieldPDFPath {
		t.Errorf("focus = %v", s.focus)
	}
}

func TestCreateReplacesWithPlay(t *testing.T) {
	deps := newDeps(t, 10)
	s := New(deps)
	s.name.SetValue("Cells")
	s.text.SetValue(material)
	s.questions.SetValue("3")

	cmd := s.submit()
	if cmd == nil || !s.submitting {
		t.Fatal("expected a submit command")
	}
	created, ok := cmd().(createdMsg)
	if !ok || created.err != nil {
		t.Fatalf("created = %+v", created)
	}
	if got := deps.Subscription.State().RemainingFree; got != 9 {
		t.Errorf("remaining = %d, want 9 straight from the response", got)
	}

	_, cmd = s.Update(created)
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected a batch, got %T", cmd())
	}
	var replaced, quota bool
	for _, c := range batch {
		switch msg := c().(type) {
		case router.ReplaceScreenMsg:
			if _, ok := msg.Screen.(*play.Screen); !ok {
				t.Errorf("replaced with %T", msg.Screen)
			}
			replaced = true
		case screen.QuotaChangedMsg:
			quota = true
		}
	}
	if !replaced || !quota {
		t.Errorf("replaced=%v quota=%v", replaced, quota)
	}
}

func TestQuotaExhaustedAlert(t *testing.T) {
	deps := newDeps(t, 0)
	deps.Subscription.SetRemainingFreeCount(0)
	s := New(deps)
	s.name.SetValue("Cells")
	s.text.SetValue(material)
	s.questions.SetValue("3")

	s.Update(s.submit()())
	if s.alert != generation.AlertQuotaExhausted {
		t.Errorf("alert = %q", s.alert)
	}
	if s.submitting {
		t.Error("submitting flag left set")
	}
}
