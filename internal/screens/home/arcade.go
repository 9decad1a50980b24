package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/screens/signin"
	"github.com/abhisek/quizly/internal/subscription"
	"github.com/abhisek/quizly/internal/ui/theme"
)

const titleCompact = "Q · U · I · Z · L · Y"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 64 {
		w = 64
	}
	if w < 20 {
		w = 20
	}
	return w
}

// renderTitle returns the banner or its compact fallback.
func renderTitle(cw int, compact bool) string {
	if compact {
		return lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Render(theme.Title.Render(titleCompact))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(signin.RenderBanner(cw))
}

// renderQuotaBar shows the plan or remaining free generations.
func renderQuotaBar(st subscription.State, cw int, compact bool) string {
	planStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	freeStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	outStyle := lipgloss.NewStyle().Foreground(theme.Error).Bold(true)

	var text string
	switch {
	case st.Status != subscription.Free:
		text = planStyle.Render("★ " + strings.ToUpper(st.Label()))
	case !st.CanGenerate:
		text = outStyle.Render("⚠ FREE LIMIT REACHED")
		if !compact {
			text += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  upgrade under PLANS")
		}
	case compact:
		text = freeStyle.Render(fmt.Sprintf("⚡%d", st.RemainingFree))
	default:
		text = freeStyle.Render(fmt.Sprintf("⚡ %d FREE GENERATIONS LEFT", st.RemainingFree))
	}

	border := theme.Secondary
	if !st.CanGenerate {
		border = theme.Error
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(border).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(text)
}

// renderPreviews lists the first flashcard of each recent quiz.
func renderPreviews(cards []api.Flashcard, loaded bool, errMsg string, cw int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	var lines []string
	lines = append(lines, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("RECENT FLASHCARDS"))
	switch {
	case errMsg != "":
		lines = append(lines, dim.Render(errMsg))
	case !loaded:
		lines = append(lines, dim.Render("Loading..."))
	case len(cards) == 0:
		lines = append(lines, dim.Render("No flashcards yet"))
	}
	term := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	for i, c := range cards {
		line := fmt.Sprintf("%d  %s", i+1, term.Render(c.Term))
		if c.QuizTitle != "" {
			line += dim.Render("  " + c.QuizTitle)
		}
		lines = append(lines, lipgloss.NewStyle().MaxWidth(cw-4).Render(line))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderMenu renders each menu item as a fixed-width button.
func renderMenu(items []string, selected int, cw int) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)

	// Two columns keep eight buttons inside a normal terminal.
	var left, right []string
	for i, label := range items {
		btn := normalBtn.Render(label)
		if i == selected {
			btn = selectedBtn.Render("▸ " + label)
		}
		if i%2 == 0 {
			left = append(left, btn)
		} else {
			right = append(right, btn)
		}
	}
	block := lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(left, "\n"), "  ", strings.Join(right, "\n"))

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderMenuCompact renders menu items as plain lines for small terminals.
func renderMenuCompact(items []string, selected int, cw int) string {
	var lines []string
	for i, label := range items {
		if i == selected {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Primary).
				Bold(true).
				Render(" ▸ "+label+" "))
			continue
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Text).Render("   "+label))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderCabinetFrame wraps content in a double-border frame centered in
// the given dimensions.
func renderCabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
