package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/ui/theme"
)

// ContentWidth returns the inner width used for cards in a frame of
// frameWidth columns.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card cw columns wide.
func Card(content string, cw int) string {
	return theme.Card.Width(cw).Render(content)
}

// HighlightCard is a Card with an accent border.
func HighlightCard(content string, cw int) string {
	return theme.Card.BorderForeground(theme.Primary).Width(cw).Render(content)
}

// Heading renders a bold section heading.
func Heading(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render(s)
}
