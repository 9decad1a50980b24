package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/quiz"
	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/layout"
	"github.com/abhisek/quizly/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	if s.submitting {
		return layout.Message("Submitting your score...", theme.Hint, width)
	}

	switch s.session.Phase() {
	case quiz.Loading:
		return layout.Message("Loading quiz...", theme.Hint, width)
	case quiz.Failed:
		return s.renderFailed(width)
	case quiz.Presenting, quiz.AnswerLocked:
		return s.renderQuestion(width, height)
	default:
		return s.renderSummary(width, height)
	}
}

func (s *Screen) renderFailed(width int) string {
	msg := s.session.ErrorMessage()
	if err := s.session.Err(); err != nil {
		msg += "\n\n" + theme.Hint.Render(err.Error())
	}
	return layout.Message(msg, theme.Alert, width)
}

func (s *Screen) renderQuestion(width, height int) string {
	q, ok := s.session.Question()
	if !ok {
		return ""
	}
	cw := components.ContentWidth(width)
	locked := s.session.Phase() == quiz.AnswerLocked

	var b strings.Builder
	progress := fmt.Sprintf("Question %d of %d", s.session.Index()+1, s.session.Total())
	score := fmt.Sprintf("Score: %d", s.session.Score())
	gap := cw - lipgloss.Width(progress) - lipgloss.Width(score)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(theme.Subtitle.Render(progress) + strings.Repeat(" ", gap) + theme.Subtitle.Render(score))
	b.WriteString("\n\n")

	if !locked {
		left := s.session.TimeLeft().Seconds()
		b.WriteString(components.TimerBar(left, s.session.QuestionTime().Seconds(), cw).View())
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Width(cw).Render(q.Question))
	b.WriteString("\n\n")

	opts := components.OptionList{
		Options: q.Choices(),
		Cursor:  s.cursor,
		Chosen:  s.session.Selected(),
		Answer:  q.Answer,
		Reveal:  locked,
	}
	b.WriteString(opts.View())

	if locked {
		if r, ok := s.session.LastResult(); ok {
			b.WriteString("\n")
			b.WriteString(feedback(r))
		}
	}

	return layout.Centered(b.String(), width, height)
}

func feedback(r quiz.AnswerResult) string {
	switch {
	case r.Correct:
		return theme.Correct.Render("Correct!")
	case r.TimedOut && r.Selected == "":
		return theme.Incorrect.Render("Time's up! The answer was " + r.Answer)
	case r.TimedOut:
		return theme.Incorrect.Render("Time's up! Your choice was wrong. The answer was " + r.Answer)
	default:
		return theme.Incorrect.Render("Wrong. The answer was " + r.Answer)
	}
}

func (s *Screen) renderSummary(width, height int) string {
	r := s.result
	if r.Total == 0 {
		r = s.session.Result()
	}
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(components.Heading("Quiz complete!"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Final score: %d / %d", r.FinalScore, r.Total)))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Accuracy:    %d%%", r.Accuracy)))
	b.WriteString("\n\n")
	b.WriteString(components.NewProgressBar("", float64(r.Accuracy)/100, cw-6).View())
	b.WriteString("\n\n")

	if s.session.Phase() == quiz.Completed {
		b.WriteString(theme.Subtitle.Render("Enter your name for the leaderboard"))
		b.WriteString("\n")
		b.WriteString(s.name.View())
		b.WriteString("\n")
	} else {
		b.WriteString(theme.Hint.Render("Press Enter to view the leaderboard"))
		b.WriteString("\n")
	}

	if s.alert != "" {
		b.WriteString("\n")
		b.WriteString(theme.Alert.Render(s.alert))
	}

	return layout.Centered(components.Card(b.String(), cw), width, height)
}
