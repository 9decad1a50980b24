package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizly/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Disposer is implemented by screens holding resources, typically a
// request context, that must be released once the screen leaves the stack.
type Disposer interface {
	Dispose()
}

// EscapeCapturer is implemented by screens that handle Esc themselves
// instead of letting the app pop them.
type EscapeCapturer interface {
	CapturesEscape() bool
}

// SignedInMsg tells the app a user signed in.
type SignedInMsg struct {
	UserID string
}

// SignedOutMsg tells the app the user signed out.
type SignedOutMsg struct{}

// QuotaChangedMsg tells the app the subscription state may have changed
// and the header should be redrawn.
type QuotaChangedMsg struct{}
