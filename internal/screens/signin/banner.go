package signin

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/ui/theme"
)

const bannerArt = `
  ██████╗ ██╗   ██╗██╗███████╗██╗  ██╗   ██╗
 ██╔═══██╗██║   ██║██║╚══███╔╝██║  ╚██╗ ██╔╝
 ██║   ██║██║   ██║██║  ███╔╝ ██║   ╚████╔╝
 ██║▄▄ ██║██║   ██║██║ ███╔╝  ██║    ╚██╔╝
 ╚██████╔╝╚██████╔╝██║███████╗███████╗██║
  ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝╚══════╝╚═╝`

const bannerCompact = "Q U I Z L Y"

// RenderBanner returns the banner in the primary color, falling back to a
// compact form below 48 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 48 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
