package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type SummaryRow struct {
	Label string
	Value string
	// Style overrides the default value style when set.
	Style *lipgloss.Style
}

// RenderSummary draws rows as a two-column table between rules.
func RenderSummary(title string, rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.Label))
		valueWidth = max(valueWidth, lipgloss.Width(row.Value))
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := make([]string, 0, len(rows)+3)
	if title != "" {
		lines = append(lines, titleStyle.Render(title))
	}
	lines = append(lines, hline)

	for _, row := range rows {
		style := summaryValueStyle
		if row.Style != nil {
			style = *row.Style
		}
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		lines = append(lines, labelStyle.Render(label)+" | "+style.Render(value))
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

var summaryValueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
