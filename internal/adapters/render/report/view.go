// Package report renders a finished session summary for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/avoncourt/pitchvigil/internal/domain"
)

type RenderOptions struct {
	TargetName string
	BarWidth   int
}

const defaultBarWidth = 24

// Render produces the multi-line summary block shown after a run.
func Render(summary domain.Summary, opts RenderOptions) string {
	return renderView(summary, opts, newStyles())
}

func renderView(summary domain.Summary, opts RenderOptions, s styles) string {
	width := opts.BarWidth
	if width <= 0 {
		width = defaultBarWidth
	}

	lines := []string{
		s.title.Render("Detection Summary"),
		s.header.Render(fmt.Sprintf("trials: %d  target: %s", summary.TotalTrials(), opts.TargetName)),
		s.section.Render(countLines(summary, s)),
		s.section.Render(rateLines(summary, width, s)),
		s.section.Render(sensitivityLine(summary, s)),
	}

	if reactionLine := reactionLine(summary, s); reactionLine != "" {
		lines = append(lines, reactionLine)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func countLines(summary domain.Summary, s styles) string {
	rows := []struct {
		label string
		count int
		style lipgloss.Style
	}{
		{"hits", summary.Hits, s.good},
		{"misses", summary.Misses, s.bad},
		{"false alarms", summary.FalseAlarms, s.bad},
		{"correct rejections", summary.CorrectRejections, s.good},
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.label.Render(fmt.Sprintf("%-19s", row.label+":")),
			row.style.Render(fmt.Sprintf("%3d", row.count)),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func rateLines(summary domain.Summary, width int, s styles) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		rateLine("hit rate", summary.HitRate, width, s),
		rateLine("FA rate", summary.FalseAlarmRate, width, s),
	)
}

func rateLine(label string, rate float64, width int, s styles) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.label.Render(fmt.Sprintf("%-9s", label+":")),
		" ",
		renderBar(rate, width, s),
		" ",
		s.value.Render(fmt.Sprintf("%5.1f%%", 100*rate)),
	)
}

func renderBar(fraction float64, width int, s styles) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	filled := int(fraction*float64(width) + 0.5)
	return s.barBracket.Render("[") +
		s.barFill.Render(strings.Repeat("█", filled)) +
		s.barEmpty.Render(strings.Repeat("░", width-filled)) +
		s.barBracket.Render("]")
}

func sensitivityLine(summary domain.Summary, s styles) string {
	style := s.good
	if summary.DPrime <= 0 {
		style = s.bad
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.label.Render("d′:"),
		" ",
		style.Render(fmt.Sprintf("%.2f", summary.DPrime)),
	)
}

func reactionLine(summary domain.Summary, s styles) string {
	if summary.Hits == 0 {
		return ""
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.label.Render("reaction:"),
		" ",
		s.value.Render(fmt.Sprintf("%.0f ms", summary.MeanReactionMs)),
		" ",
		s.meta.Render(fmt.Sprintf("(σ %.0f ms over hits)", summary.ReactionStdDevMs)),
	)
}
