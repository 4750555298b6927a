package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorInk       = lipgloss.Color("#E5E9F0")
	ColorDim       = lipgloss.Color("#7A8291")
	ColorAccent    = lipgloss.Color("#88C0D0")
	ColorAccentAlt = lipgloss.Color("#81A1C1")
	ColorSuccess   = lipgloss.Color("#A3BE8C")
	ColorWarn      = lipgloss.Color("#EBCB8B")
	ColorError     = lipgloss.Color("#BF616A")
)

// Styles shared by the commands' per-file listings.
var (
	FileStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	CategoryStyle = lipgloss.NewStyle().Foreground(ColorAccentAlt)
	ValueStyle    = lipgloss.NewStyle().Foreground(ColorInk)
	DimStyle      = lipgloss.NewStyle().Foreground(ColorDim)
	WarnStyle     = lipgloss.NewStyle().Foreground(ColorWarn)
	ErrorStyle    = lipgloss.NewStyle().Foreground(ColorError)
	GoodStyle     = lipgloss.NewStyle().Foreground(ColorSuccess)
)

// ReductionStyle colours a signed reduction: green for savings, amber for
// growth.
func ReductionStyle(percent float64) lipgloss.Style {
	if percent < 0 {
		return WarnStyle
	}
	return GoodStyle
}
