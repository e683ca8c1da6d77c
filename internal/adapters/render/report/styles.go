package report

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	label      lipgloss.Style
	value      lipgloss.Style
	good       lipgloss.Style
	bad        lipgloss.Style
	meta       lipgloss.Style
	section    lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		label:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		value:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		good:       lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		bad:        lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		meta:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		section:    lipgloss.NewStyle().MarginTop(1),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
