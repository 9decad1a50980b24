package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizly/internal/ui/theme"
)

// OptionList renders the answer options of a question. Before Reveal the
// cursor and the chosen option are highlighted; after it the correct
// option is marked ✓ and a wrong choice ✗.
type OptionList struct {
	Options []string
	Cursor  int
	Chosen  string
	Answer  string
	Reveal  bool
}

// Label returns the letter shown before option i.
func Label(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprint(i + 1)
}

// View renders the option list.
func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Cursor && !o.Reveal {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, Label(i), opt)

		switch {
		case o.Reveal && opt == o.Answer:
			b.WriteString(theme.Correct.Render(line + "  ✓"))
		case o.Reveal && opt == o.Chosen:
			b.WriteString(theme.Incorrect.Render(line + "  ✗"))
		case o.Reveal:
			b.WriteString(theme.Dimmed.Render(line))
		case opt == o.Chosen && o.Chosen != "":
			b.WriteString(theme.Selected.Render(line + "  •"))
		case i == o.Cursor:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
