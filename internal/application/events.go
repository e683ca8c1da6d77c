package application

import (
	"fmt"

	"github.com/avoncourt/pitchvigil/internal/domain"
)

type State int

const (
	StateIdle State = iota
	StatePreviewingTarget
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreviewingTarget:
		return "previewingTarget"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type EventKind int

const (
	EventStateChanged EventKind = iota
	EventTrialStarted
	EventWindowClosed
	EventResponseAccepted
	EventRunFinished
)

type Event struct {
	Kind       EventKind
	State      State
	TrialIndex int
	Summary    *domain.Summary
}

// Snapshot is the read model handed to the UI: commands go in through the
// service methods, state comes out here, never through shared fields.
type Snapshot struct {
	State       State
	TrialIndex  int
	TotalTrials int
	Target      domain.Pitch
	WindowOpen  bool
	Responded   bool
	Summary     *domain.Summary
}
