package tui

import "github.com/charmbracelet/lipgloss"

// Cafe palette: warm brown, off-white and muted sage.
var (
	ColorInk       = lipgloss.Color("#F4EFE6")
	ColorDim       = lipgloss.Color("#8C8279")
	ColorAccent    = lipgloss.Color("#C08A5B")
	ColorAccentAlt = lipgloss.Color("#8A5A3B")
	ColorSuccess   = lipgloss.Color("#9CAF88")
	ColorWarn      = lipgloss.Color("#E0B15C")
)
