package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA): Note IDs, paths, highlights
// - Muted (gray): Secondary info, hints
// - No colored success/error/warning - use unicode symbols only

const accentColor = "#A78BFA"

var (
	// Accent style for note IDs, file paths, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(accentColor))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(accentColor)).Bold(true)
)
