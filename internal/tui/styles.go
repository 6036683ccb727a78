package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	launcher lipgloss.Style
	header   lipgloss.Style
	subtitle lipgloss.Style
	lang     lipgloss.Style
	user     lipgloss.Style
	bot      lipgloss.Style
	pending  lipgloss.Style
	errorMsg lipgloss.Style
	help     lipgloss.Style
	panel    lipgloss.Style
}

func defaultStyles() styles {
	accent := lipgloss.AdaptiveColor{Light: "#5A4FCF", Dark: "#9D8CFF"}
	muted := lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#8A8A8A"}

	return styles{
		launcher: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent).
			Padding(0, 2).
			Bold(true),
		header:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		subtitle: lipgloss.NewStyle().Foreground(muted),
		lang:     lipgloss.NewStyle().Foreground(muted).Italic(true),
		user:     lipgloss.NewStyle().Foreground(accent).Bold(true),
		bot:      lipgloss.NewStyle(),
		pending:  lipgloss.NewStyle().Foreground(muted).Italic(true),
		errorMsg: lipgloss.NewStyle().Foreground(lipgloss.Color("#E0556A")),
		help:     lipgloss.NewStyle().Foreground(muted),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
	}
}
