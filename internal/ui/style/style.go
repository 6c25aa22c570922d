// Package style holds the shared color palette and icons used for
// terminal output across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Indigo   = lipgloss.Color("#6366F1")
	Graphite = lipgloss.Color("#5B6472")
	Paper    = lipgloss.Color("#FAFAF7")
	Charcoal = lipgloss.Color("#11141A")
	Emerald  = lipgloss.Color("#10B981")
	Crimson  = lipgloss.Color("#DC2626")
	Amber    = lipgloss.Color("#D97706")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Bullet  = "•"
)

// Header renders command headings, e.g. the version banner.
var Header = lipgloss.NewStyle().Bold(true).Foreground(Indigo)
