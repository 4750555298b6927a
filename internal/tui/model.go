package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gyuu/internal/processor"
	"gyuu/pkg/imgutil"
)

type Model struct {
	updates         <-chan processor.ProgressUpdate
	started         time.Time
	width           int
	total           int
	processed       int
	errors          int
	fallbacks       int
	originalBytes   int64
	compressedBytes int64
	current         string
	quitting        bool
	interrupted     bool
}

type doneMsg struct{}

type updateMsg processor.ProgressUpdate

func NewModel(updates <-chan processor.ProgressUpdate) Model {
	return Model{updates: updates, started: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.total += msg.TotalDelta
		m.processed += msg.ProcessedDelta
		m.errors += msg.ErrorDelta
		m.fallbacks += msg.FallbackDelta
		m.originalBytes += msg.OriginalBytesDelta
		m.compressedBytes += msg.CompressedBytesDelta
		if msg.Current != "" {
			m.current = msg.Current
		}
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

// Interrupted reports whether the user quit with ctrl+c before the batch
// finished.
func (m Model) Interrupted() bool {
	return m.interrupted
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	done := m.processed + m.errors
	ratio := 0.0
	if m.total > 0 {
		ratio = float64(done) / float64(m.total)
		if ratio > 1 {
			ratio = 1
		}
	}

	bar := renderBar(barWidth, ratio)
	elapsed := time.Since(m.started).Round(time.Millisecond)

	lines := []string{
		titleStyle.Render("gyuu"),
		labelStyle.Render(fmt.Sprintf("Files: %d/%d", done, m.total)) +
			dimStyle.Render(fmt.Sprintf("  errors:%d  kept original:%d", m.errors, m.fallbacks)),
		labelStyle.Render("Size: " + m.sizeLine()),
	}
	if m.current != "" {
		lines = append(lines, dimStyle.Render("Now: "+m.current))
	}
	lines = append(lines,
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		barStyle.Render(bar),
	)

	return strings.Join(lines, "\n")
}

func (m Model) sizeLine() string {
	if m.originalBytes <= 0 {
		return imgutil.FormatSize(0)
	}
	reduction := float64(m.originalBytes-m.compressedBytes) / float64(m.originalBytes) * 100
	return fmt.Sprintf("%s → %s (%s)",
		imgutil.FormatSize(m.originalBytes),
		imgutil.FormatSize(m.compressedBytes),
		imgutil.FormatReduction(reduction),
	)
}

func listenForUpdates(updates <-chan processor.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(ColorInk)
	barStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
	dimStyle   = lipgloss.NewStyle().Foreground(ColorDim)
)
