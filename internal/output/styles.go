package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	ColorInfo  = lipgloss.Color("#00BFFF") // cyan
	ColorMuted = lipgloss.Color("#666666") // gray
	ColorLabel = lipgloss.Color("#AAAAAA") // light gray for labels
)

// Box styles
var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorInfo).
			Padding(0, 1)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorInfo)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorLabel).
			Width(18)

	ValueStyle = lipgloss.NewStyle()

	MutedText = lipgloss.NewStyle().
			Foreground(ColorMuted)
)
