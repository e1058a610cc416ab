// Package tui is the interactive route view: a checklist with a tiered progress
// bar, collapsible legs, resume-with-highlight and a pan/zoom map overlay.
package tui

import (
	"route-tracker/internal/logging"
	"route-tracker/internal/tracker"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Session *tracker.Session
	// LoadErr replaces the route with an error screen.
	LoadErr error
	Glyphs  string
	Log     *logging.Logger
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyBackgroundPreference()
	applyGlyphPreference(opts.Glyphs)

	m := newAppModel(opts)
	defer m.close()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
