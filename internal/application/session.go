package application

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/avoncourt/pitchvigil/internal/domain"
	"github.com/avoncourt/pitchvigil/internal/ports"
	"github.com/avoncourt/pitchvigil/internal/score"
	"github.com/avoncourt/pitchvigil/internal/sequence"
)

const eventBufferSize = 256

// SessionService owns one detection run at a time. Every mutation happens
// under the mutex, and every timer callback re-checks the run identifier
// so that timers from a cancelled run can never touch a newer one.
type SessionService struct {
	mu    sync.Mutex
	gen   *sequence.Generator
	sink  ports.AudioSink
	clock ports.Clock
	log   *zap.Logger

	state   State
	runID   uint64
	cfg     domain.TaskConfig
	target  domain.Pitch
	trials  []domain.Trial
	current int
	gate    responseGate
	summary *domain.Summary

	previewTimer *time.Timer
	windowTimer  *time.Timer
	onsetTimer   *time.Timer

	events chan Event
}

type responseGate struct {
	open  bool
	trial int
}

type Option func(*SessionService)

func WithClock(clock ports.Clock) Option {
	return func(s *SessionService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithGenerator(gen *sequence.Generator) Option {
	return func(s *SessionService) {
		if gen != nil {
			s.gen = gen
		}
	}
}

func NewSessionService(sink ports.AudioSink, log *zap.Logger, opts ...Option) *SessionService {
	if sink == nil {
		sink = ports.NopSink{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &SessionService{
		gen:     sequence.NewGenerator(),
		sink:    sink,
		clock:   ports.SystemClock{},
		log:     log,
		state:   StateIdle,
		current: -1,
		events:  make(chan Event, eventBufferSize),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *SessionService) Events() <-chan Event {
	return s.events
}

func (s *SessionService) Start(cfg domain.TaskConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return fmt.Errorf("start: %w", domain.ErrSessionActive)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	s.cfg = cfg
	return s.beginRunLocked()
}

func (s *SessionService) RunAgain() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateFinished {
		return fmt.Errorf("run again: %w", domain.ErrNoFinishedRun)
	}

	s.cancelTimersLocked()
	return s.beginRunLocked()
}

func (s *SessionService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTimersLocked()
	s.runID++
	s.trials = nil
	s.summary = nil
	s.target = 0
	s.current = -1
	s.gate = responseGate{}
	s.setStateLocked(StateIdle)
}

// Respond accepts the tap only while a trial's window is open and that
// trial has not been answered yet. Everything else is ignored without an
// error: double taps and late taps are debounced, not failures.
func (s *SessionService) Respond() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning || !s.gate.open {
		return false
	}
	index := s.gate.trial
	if index < 0 || index >= len(s.trials) {
		return false
	}

	trial := &s.trials[index]
	if trial.Responded {
		return false
	}

	now := s.clock.Now()
	if now.Before(trial.OnsetAt) {
		return false
	}

	trial.RespondedAt = now
	trial.Responded = true
	s.emitLocked(Event{Kind: EventResponseAccepted, State: s.state, TrialIndex: index})

	return true
}

func (s *SessionService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:       s.state,
		TrialIndex:  s.current,
		TotalTrials: len(s.trials),
		Target:      s.target,
		WindowOpen:  s.gate.open,
	}
	if s.current >= 0 && s.current < len(s.trials) {
		snap.Responded = s.trials[s.current].Responded
	}
	if s.summary != nil {
		summary := *s.summary
		snap.Summary = &summary
	}

	return snap
}

func (s *SessionService) beginRunLocked() error {
	plan, err := s.gen.Generate(s.cfg)
	if err != nil {
		return fmt.Errorf("generate sequence: %w", err)
	}
	if plan.Relaxed {
		s.log.Warn("sequence constraints relaxed after retry cap",
			zap.Int("totalTrials", s.cfg.TotalTrials),
			zap.Int("numTargets", s.cfg.NumTargets),
			zap.Int("pitchSetSize", len(s.cfg.Pitches)))
	}

	s.runID++
	s.target = plan.Target
	s.trials = plan.Trials
	s.current = -1
	s.gate = responseGate{}
	s.summary = nil

	s.setStateLocked(StatePreviewingTarget)
	s.log.Info("run started",
		zap.Uint64("run", s.runID),
		zap.String("target", s.target.Name()),
		zap.Int("totalTrials", s.cfg.TotalTrials))

	s.playLocked(s.target)

	run := s.runID
	s.previewTimer = time.AfterFunc(s.cfg.TargetPreview, func() { s.beginTrials(run) })

	return nil
}

func (s *SessionService) beginTrials(run uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run != s.runID || s.state != StatePreviewingTarget {
		return
	}

	s.setStateLocked(StateRunning)
	s.startTrialLocked(run, 0)
}

func (s *SessionService) startTrialLocked(run uint64, index int) {
	s.current = index
	trial := &s.trials[index]

	trial.OnsetAt = s.clock.Now()
	s.playLocked(trial.Pitch)
	s.gate = responseGate{open: true, trial: index}

	s.windowTimer = time.AfterFunc(s.cfg.ResponseWindow, func() { s.closeWindow(run, index) })
	s.onsetTimer = time.AfterFunc(s.cfg.InterOnset, func() { s.advance(run, index+1) })

	s.emitLocked(Event{Kind: EventTrialStarted, State: s.state, TrialIndex: index})
}

func (s *SessionService) closeWindow(run uint64, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run != s.runID {
		return
	}
	if s.gate.open && s.gate.trial == index {
		s.gate.open = false
		s.emitLocked(Event{Kind: EventWindowClosed, State: s.state, TrialIndex: index})
	}
}

func (s *SessionService) advance(run uint64, next int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run != s.runID || s.state != StateRunning {
		return
	}

	if next < len(s.trials) {
		s.startTrialLocked(run, next)
		return
	}
	s.finishLocked()
}

func (s *SessionService) finishLocked() {
	s.gate = responseGate{}
	summary := score.Summarize(s.trials, s.cfg.ResponseWindow)
	s.summary = &summary

	s.setStateLocked(StateFinished)
	s.emitLocked(Event{Kind: EventRunFinished, State: s.state, TrialIndex: s.current, Summary: snapshotSummary(&summary)})

	s.log.Info("run finished",
		zap.Uint64("run", s.runID),
		zap.Int("hits", summary.Hits),
		zap.Int("misses", summary.Misses),
		zap.Int("falseAlarms", summary.FalseAlarms),
		zap.Int("correctRejections", summary.CorrectRejections),
		zap.Float64("dPrime", summary.DPrime))
}

func (s *SessionService) playLocked(pitch domain.Pitch) {
	if err := s.sink.Play(pitch, s.cfg.NoteDuration); err != nil {
		s.log.Warn("playback failed", zap.String("pitch", pitch.Name()), zap.Error(err))
	}
}

func (s *SessionService) cancelTimersLocked() {
	for _, timer := range []*time.Timer{s.previewTimer, s.windowTimer, s.onsetTimer} {
		if timer != nil {
			timer.Stop()
		}
	}
	s.previewTimer = nil
	s.windowTimer = nil
	s.onsetTimer = nil
}

func (s *SessionService) setStateLocked(state State) {
	s.state = state
	s.emitLocked(Event{Kind: EventStateChanged, State: state, TrialIndex: s.current})
}

func (s *SessionService) emitLocked(ev Event) {
	select {
	case s.events <- ev:
	default:
		s.log.Debug("event buffer full, dropping event", zap.Int("kind", int(ev.Kind)))
	}
}

func snapshotSummary(summary *domain.Summary) *domain.Summary {
	if summary == nil {
		return nil
	}
	copied := *summary
	return &copied
}
