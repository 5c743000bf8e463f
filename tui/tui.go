// Package tui provides the primary terminal user interface implementation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pipetube-cli/pipetube/session"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Continue opens the watch history instead of the search prompt.
	Continue bool

	// Audio runs playback without a video output.
	Audio bool

	// Segments is the skip segment source handed to new sessions.
	Segments session.SegmentSource
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(options *Options) error {
	bubble := newBubble(options)

	if options.Continue {
		count, err := bubble.loadHistory()
		if err != nil {
			return err
		}
		if count > 0 {
			bubble.newState(historyState)
		} else {
			bubble.newState(searchState)
		}
	} else {
		bubble.newState(searchState)
	}

	program := tea.NewProgram(bubble, tea.WithAltScreen())
	bubble.surface = &programSurface{program: program}

	_, err := program.Run()
	bubble.manager.Stop()
	return err
}
