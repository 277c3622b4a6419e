package tui

import "github.com/charmbracelet/lipgloss"

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#05ffa1"))

type theme struct {
	header      lipgloss.Style
	panel       lipgloss.Style
	title       lipgloss.Style
	status      lipgloss.Style
	errorStatus lipgloss.Style
	inputPanel  lipgloss.Style
	muted       lipgloss.Style
}

func newTheme() theme {
	blue := lipgloss.Color("#7aa2f7")
	pink := lipgloss.Color("#ff5fa2")
	muted := lipgloss.Color("#6b7280")
	return theme{
		header: lipgloss.NewStyle().Bold(true).Foreground(blue).Padding(0, 1),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		title:       lipgloss.NewStyle().Bold(true).Foreground(blue),
		status:      lipgloss.NewStyle().Foreground(blue).Bold(true),
		errorStatus: lipgloss.NewStyle().Foreground(pink).Bold(true),
		inputPanel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(blue).
			Padding(0, 1),
		muted: lipgloss.NewStyle().Foreground(muted),
	}
}

// wrap renders text as-is, wrapped to width.
func wrap(content string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(content)
}

func joinColumns(columns ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}
