package plans

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/layout"
	"github.com/abhisek/quizly/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var body string
	if s.checkout {
		body = s.checkoutView()
	} else {
		body = s.listView()
	}

	switch {
	case s.busy:
		body += "\n\n" + theme.Notice.Render("Submitting...")
	case s.alert != "":
		body += "\n\n" + theme.Alert.Width(cw-6).Render(s.alert)
	case s.notice != "":
		body += "\n\n" + theme.Correct.Width(cw-6).Render(s.notice)
	}
	return layout.Centered(components.Card(body, cw), width, height)
}

func (s *Screen) listView() string {
	st := s.deps.Subscription.State()
	var b strings.Builder
	b.WriteString(components.Heading("Choose a plan"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Current: " + st.Label()))
	b.WriteString("\n\n")

	for i, p := range s.plans {
		head := fmt.Sprintf("%-10s ₹%d / %s", p.Name, p.PriceINR, p.Period)
		if p.ID == st.Status {
			head += "  (current)"
		}
		if i == s.selected {
			b.WriteString(theme.Selected.Render("▸ " + head))
			b.WriteString("\n")
			for _, f := range p.Features {
				b.WriteString(theme.Body.Render("    • " + f))
				b.WriteString("\n")
			}
		} else {
			b.WriteString(theme.Unselected.Render("  " + head))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Screen) checkoutView() string {
	p := s.Plan()
	label := func(i int, text string) string {
		if i == s.focus {
			return theme.Selected.Render(text)
		}
		return theme.Subtitle.Render(text)
	}

	lines := []string{
		components.Heading(fmt.Sprintf("Pay ₹%d for the %s plan", p.PriceINR, p.Name)),
		"",
		theme.Body.Render("1. Pay with any UPI app to " + s.deps.Payee.ID),
		theme.Hint.Render("   " + s.deps.Payee.UPILink(p)),
		theme.Body.Render("2. Attach a screenshot of the payment and its transaction id"),
		"",
		label(0, "Payment screenshot"),
		s.proof.View(),
		"",
		label(1, "Transaction id"),
		s.txn.View(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
