package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type preloadDoneMsg struct {
	err error
}

type preloadSpinnerModel struct {
	spinner spinner.Model
	label   string
	preload tea.Cmd
	err     error
	done    bool
}

func newPreloadSpinnerModel(label string, preload tea.Cmd) preloadSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return preloadSpinnerModel{
		spinner: s,
		label:   label,
		preload: preload,
	}
}

func (m preloadSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.preload)
}

func (m preloadSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case preloadDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m preloadSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

func runPreloadSpinner(ctx context.Context, output io.Writer, preload func() error) error {
	preloadCmd := func() tea.Msg {
		return preloadDoneMsg{err: preload()}
	}

	p := tea.NewProgram(
		newPreloadSpinnerModel("Warming tone bank...", preloadCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(preloadSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
