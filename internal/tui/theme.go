package tui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette, calm study-session tones
var (
	Primary = lipgloss.Color("#6366F1") // Indigo
	Success = lipgloss.Color("#22C55E") // Green
	Warning = lipgloss.Color("#EAB308") // Amber
	Danger  = lipgloss.Color("#F43F5E") // Rose
	Text    = lipgloss.Color("#F8FAFC") // White
	TextDim = lipgloss.Color("#94A3B8") // Slate
	Border  = lipgloss.Color("#334155") // Slate
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	dimStyle = lipgloss.NewStyle().
			Foreground(TextDim)

	errStyle = lipgloss.NewStyle().
			Foreground(Danger)

	selectedStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	fossilStyle = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	detailStyle = lipgloss.NewStyle().
			Foreground(Text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)
)

// trendColor maps a trend direction onto the palette.
func trendColor(direction string) color.Color {
	switch direction {
	case "improving":
		return Success
	case "worsening":
		return Danger
	default:
		return Warning
	}
}
