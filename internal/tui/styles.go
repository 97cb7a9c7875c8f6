package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/spec-kit/support-intake/internal/domain"
)

var (
	colorPrimary = lipgloss.Color("#165D7D")
	colorHigh    = lipgloss.Color("#DC3545")
	colorMedium  = lipgloss.Color("#FFC107")
	colorLow     = lipgloss.Color("#28A745")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")

	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			MarginBottom(1)

	styleLabel = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleFocused = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleHelp = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)
)

func urgencyBadge(level domain.UrgencyLevel) string {
	color := colorMedium
	label := "Medium Priority"
	switch level {
	case domain.UrgencyHigh:
		color, label = colorHigh, "High Priority"
	case domain.UrgencyLow:
		color, label = colorLow, "Low Priority"
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(color).
		Bold(true).
		Padding(0, 1).
		Render(label)
}
