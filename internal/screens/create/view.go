package create

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/generation"
	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/layout"
	"github.com/abhisek/quizly/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	s.text.SetWidth(cw - 4)

	var b strings.Builder
	b.WriteString(s.stepper())
	b.WriteString("\n\n")

	current := s.focus.step()
	for _, f := range s.visible() {
		if f.step() != current {
			continue
		}
		b.WriteString(s.label(f))
		b.WriteString("\n")
		b.WriteString(s.fieldView(f))
		b.WriteString("\n\n")
	}

	switch {
	case s.submitting:
		b.WriteString(theme.Notice.Render("Generating your quiz..."))
	case s.alert != "":
		b.WriteString(theme.Alert.Render(s.alert))
	}

	return layout.Centered(components.Card(strings.TrimRight(b.String(), "\n"), cw), width, height)
}

func (s *Screen) stepper() string {
	parts := make([]string, len(generation.Steps))
	for i, st := range generation.Steps {
		label := fmt.Sprintf("%d. %s", i+1, st)
		switch {
		case st == s.focus.step():
			parts[i] = theme.Selected.Render(label)
		case st < s.focus.step():
			parts[i] = theme.Correct.Render(label)
		default:
			parts[i] = theme.Dimmed.Render(label)
		}
	}
	return strings.Join(parts, theme.Dimmed.Render("  ›  "))
}

func (s *Screen) label(f field) string {
	names := map[field]string{
		fieldName:       "Quiz name",
		fieldSource:     "Content source",
		fieldText:       "Content",
		fieldPDFPath:    "PDF file",
		fieldStartPage:  "Start page",
		fieldEndPage:    "End page",
		fieldType:       "Question type",
		fieldOptions:    "Options per question",
		fieldQuestions:  fmt.Sprintf("Number of questions (1-%d)", generation.MaxQuestions),
		fieldFlashcards: "Include flashcards",
	}
	if f == s.focus {
		return theme.Selected.Render(names[f])
	}
	return theme.Subtitle.Render(names[f])
}

func (s *Screen) fieldView(f field) string {
	switch f {
	case fieldName:
		return s.name.View()
	case fieldSource:
		return choice(s.source == generation.FromText, "Text", "PDF")
	case fieldText:
		return s.text.View()
	case fieldPDFPath:
		return s.pdfPath.View()
	case fieldStartPage:
		return s.startPage.View()
	case fieldEndPage:
		return s.endPage.View()
	case fieldType:
		return choice(s.qtype == api.MultipleChoice, "Multiple choice", "True / False")
	case fieldOptions:
		return s.options.View()
	case fieldQuestions:
		return s.questions.View()
	case fieldFlashcards:
		return choice(s.flashcards, "Yes", "No")
	}
	return ""
}

func choice(first bool, a, b string) string {
	on, off := theme.Selected, theme.Dimmed
	if first {
		return on.Render("(•) "+a) + "   " + off.Render("( ) "+b)
	}
	return off.Render("( ) "+a) + "   " + on.Render("(•) "+b)
}
