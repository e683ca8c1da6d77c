// Package tui is the interactive session screen: it subscribes to the
// session service's event stream and turns key presses into commands.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avoncourt/pitchvigil/internal/adapters/render/report"
	"github.com/avoncourt/pitchvigil/internal/application"
	"github.com/avoncourt/pitchvigil/internal/domain"
)

type sessionEventMsg struct {
	event application.Event
}

type startErrMsg struct {
	err error
}

// Model drives one detection session. The service owns all task state;
// the model only keeps the latest snapshot for display.
type Model struct {
	service *application.SessionService
	cfg     domain.TaskConfig

	s        styles
	spinner  spinner.Model
	progress progress.Model

	snap     application.Snapshot
	accepted bool
	err      error
	quitting bool
}

func New(service *application.SessionService, cfg domain.TaskConfig) Model {
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return Model{
		service:  service,
		cfg:      cfg,
		s:        newStyles(),
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		snap:     service.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, startCmd(m.service, m.cfg), listenCmd(m.service))
}

func startCmd(service *application.SessionService, cfg domain.TaskConfig) tea.Cmd {
	return func() tea.Msg {
		if err := service.Start(cfg); err != nil {
			return startErrMsg{err: err}
		}
		return nil
	}
}

// listenCmd reads the next session event; the handler re-arms it so the
// stream is consumed one event per Update.
func listenCmd(service *application.SessionService) tea.Cmd {
	return func() tea.Msg {
		return sessionEventMsg{event: <-service.Events()}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case startErrMsg:
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit

	case sessionEventMsg:
		m.snap = m.service.Snapshot()
		switch msg.event.Kind {
		case application.EventTrialStarted:
			m.accepted = false
		case application.EventResponseAccepted:
			m.accepted = true
		}
		return m, listenCmd(m.service)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case " ", "space":
		if m.service.Respond() {
			m.accepted = true
		}
		return m, nil

	case "r":
		if m.snap.State == application.StateFinished {
			if err := m.service.RunAgain(); err != nil {
				m.err = err
				m.quitting = true
				return m, tea.Quit
			}
			m.snap = m.service.Snapshot()
			m.accepted = false
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		if m.err != nil {
			return m.s.err.Render(fmt.Sprintf("error: %v", m.err)) + "\n"
		}
		return ""
	}

	switch m.snap.State {
	case application.StatePreviewingTarget:
		return m.previewView()
	case application.StateRunning:
		return m.runningView()
	case application.StateFinished:
		return m.finishedView()
	default:
		return m.s.help.Render("starting...")
	}
}

func (m Model) previewView() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.s.title.Render("pitchvigil"),
		"",
		fmt.Sprintf("%s listen for the target tone: %s",
			m.spinner.View(), m.s.target.Render(m.snap.Target.Name())),
		"",
		m.s.help.Render("press space when you hear it again"),
	)
}

func (m Model) runningView() string {
	fraction := 0.0
	if m.snap.TotalTrials > 0 {
		fraction = float64(m.snap.TrialIndex+1) / float64(m.snap.TotalTrials)
	}

	window := m.s.closed.Render("·")
	if m.snap.WindowOpen {
		window = m.s.window.Render("◉ listening")
	}

	response := ""
	if m.accepted {
		response = m.s.accepted.Render("  ✓")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.s.title.Render("pitchvigil"),
		"",
		m.s.trial.Render(fmt.Sprintf("trial %d of %d", m.snap.TrialIndex+1, m.snap.TotalTrials)),
		m.progress.ViewAs(fraction),
		"",
		window+response,
		"",
		m.s.help.Render("space: respond  q: quit"),
	)
}

func (m Model) finishedView() string {
	body := m.s.help.Render("no summary available")
	if m.snap.Summary != nil {
		body = report.Render(*m.snap.Summary, report.RenderOptions{TargetName: m.snap.Target.Name()})
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		body,
		"",
		m.s.help.Render("r: run again  q: quit"),
	)
}
