package mocktest

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/generation"
	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/layout"
	"github.com/abhisek/quizly/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var body string
	switch s.mode {
	case modeResult:
		body = s.resultView()
	case modeList:
		body = s.listView(height)
	default:
		body = s.formView()
	}

	switch {
	case s.busy:
		body += "\n\n" + theme.Notice.Render("Working...")
	case s.alert != "":
		body += "\n\n" + theme.Alert.Render(s.alert)
	case s.notice != "":
		body += "\n\n" + theme.Correct.Render(s.notice)
	}
	return layout.Centered(components.Card(body, cw), width, height)
}

func (s *Screen) label(f field, text string) string {
	if f == s.focus {
		return theme.Selected.Render(text)
	}
	return theme.Subtitle.Render(text)
}

func (s *Screen) formView() string {
	var b strings.Builder
	b.WriteString(components.Heading("Generate a mock test"))
	b.WriteString("\n\n")
	b.WriteString(s.label(fieldTopic, "Topic") + "\n" + s.topic.View() + "\n\n")
	b.WriteString(s.label(fieldDescription, "Description") + "\n" + s.description.View() + "\n\n")

	levels := make([]string, len(generation.Difficulties))
	for i, d := range generation.Difficulties {
		if i == s.difficulty {
			levels[i] = theme.Selected.Render("[" + d + "]")
		} else {
			levels[i] = theme.Dimmed.Render(" " + d + " ")
		}
	}
	b.WriteString(s.label(fieldDifficulty, "Difficulty") + "\n" + strings.Join(levels, " ") + "\n\n")
	b.WriteString(s.label(fieldQuestions, fmt.Sprintf("Questions (default %d)", generation.DefaultQuestions)) + "\n" + s.questions.View())
	return b.String()
}

func (s *Screen) resultView() string {
	r := s.result
	rows := [][2]string{
		{"Topic", r.Topic},
		{"Difficulty", r.Difficulty},
		{"Questions", fmt.Sprintf("%d", r.NumQuestions)},
		{"Test ID", r.TestID},
		{"Download", r.DownloadLink},
	}
	var b strings.Builder
	b.WriteString(components.Heading("Your mock test is ready"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%-11s", row[0])))
		b.WriteString(theme.Body.Render(row[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Press D to save the PDF to " + s.DownloadPath(r.TestID)))
	return b.String()
}

func (s *Screen) listView(height int) string {
	if !s.listed {
		return theme.Hint.Render("Loading your mock tests...")
	}
	if len(s.tests) == 0 {
		return theme.Hint.Render("No mock tests yet.")
	}

	rows := height - 10
	if rows < 1 {
		rows = 1
	}
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(start+rows, len(s.tests))

	lines := []string{components.Heading(fmt.Sprintf("  %-28s %-13s %4s", "Topic", "Difficulty", "Qs"))}
	for i := start; i < end; i++ {
		t := s.tests[i]
		line := fmt.Sprintf("%-28s %-13s %4d", truncate(t.Topic, 28), t.Difficulty, t.NumQuestions)
		if i == s.selected {
			lines = append(lines, theme.Selected.Render("▸ "+line))
		} else {
			lines = append(lines, theme.Unselected.Render("  "+line))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
