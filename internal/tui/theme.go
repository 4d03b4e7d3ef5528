package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the dashboard.
type Styles struct {
	Title   lipgloss.Style
	Panel   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Warning lipgloss.Style
	Footer  lipgloss.Style
}

func defaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),

		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		Value: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")),

		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203")),

		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1),
	}
}
