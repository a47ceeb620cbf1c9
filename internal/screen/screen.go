package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/deepsea/deepsea/internal/ui/document"
	"github.com/deepsea/deepsea/internal/ui/layout"
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

// DocumentProvider is implemented by screens that record what they
// rendered for diagnostics.
type DocumentProvider interface {
	// Document returns the last rendered document, nil before the first
	// layout.
	Document() *document.Document
}

// SizeMsg carries the area available to screen content. The app sends it
// on every terminal resize.
type SizeMsg struct {
	Width  int
	Height int
}

// ResumedMsg is sent to a screen when it becomes the top of the stack
// again.
type ResumedMsg struct{}

// ClickMsg is a left click in content coordinates.
type ClickMsg struct {
	X, Y int
}

// StateChangedMsg tells screens the user state was updated elsewhere.
type StateChangedMsg struct{}
