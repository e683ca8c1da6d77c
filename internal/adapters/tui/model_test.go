package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoncourt/pitchvigil/internal/application"
	"github.com/avoncourt/pitchvigil/internal/domain"
)

func previewConfig() domain.TaskConfig {
	cfg := domain.DefaultTaskConfig()
	// Long preview keeps the session in the preview state for the whole test.
	cfg.TargetPreview = time.Minute
	return cfg
}

func TestPreviewViewShowsTarget(t *testing.T) {
	t.Parallel()

	service := application.NewSessionService(nil, nil)
	cfg := previewConfig()
	require.NoError(t, service.Start(cfg))
	defer service.Reset()

	m := New(service, cfg)

	view := m.View()
	assert.Contains(t, view, "pitchvigil")
	assert.Contains(t, view, "listen for the target tone")
	assert.Contains(t, view, m.snap.Target.Name())
}

func TestQuitKeyStopsProgram(t *testing.T) {
	t.Parallel()

	service := application.NewSessionService(nil, nil)
	m := New(service, domain.DefaultTaskConfig())

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Empty(t, updated.(Model).View())
}

func TestSessionEventRefreshesSnapshot(t *testing.T) {
	t.Parallel()

	service := application.NewSessionService(nil, nil)
	cfg := previewConfig()
	m := New(service, cfg)
	require.Equal(t, application.StateIdle, m.snap.State)

	require.NoError(t, service.Start(cfg))
	defer service.Reset()

	updated, cmd := m.Update(sessionEventMsg{event: application.Event{Kind: application.EventStateChanged}})
	require.NotNil(t, cmd, "listen command should be re-armed")
	assert.Equal(t, application.StatePreviewingTarget, updated.(Model).snap.State)
}

func TestStartErrorQuitsWithMessage(t *testing.T) {
	t.Parallel()

	service := application.NewSessionService(nil, nil)
	m := New(service, domain.DefaultTaskConfig())

	updated, cmd := m.Update(startErrMsg{err: errors.New("bad config")})
	require.NotNil(t, cmd)
	assert.Contains(t, updated.(Model).View(), "bad config")
}
