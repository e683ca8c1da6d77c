package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	target   lipgloss.Style
	trial    lipgloss.Style
	window   lipgloss.Style
	closed   lipgloss.Style
	accepted lipgloss.Style
	help     lipgloss.Style
	err      lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		target:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		trial:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		window:   lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		closed:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		accepted: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78")),
		help:     lipgloss.NewStyle().Faint(true),
		err:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}
