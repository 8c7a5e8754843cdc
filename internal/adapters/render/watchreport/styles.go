package watchreport

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	badge    lipgloss.Style
	item     lipgloss.Style
	rank     lipgloss.Style
	detail   lipgloss.Style
	firstDay lipgloss.Style
	warning  lipgloss.Style
	section  lipgloss.Style
	empty    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		badge:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		item:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		rank:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		firstDay: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		warning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:  lipgloss.NewStyle().MarginTop(1),
		empty:    lipgloss.NewStyle().Faint(true),
	}
}
