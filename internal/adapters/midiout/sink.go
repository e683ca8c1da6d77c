// Package midiout sends stimuli to an external synthesizer over MIDI
// instead of rendering audio locally.
package midiout

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"go.uber.org/zap"

	"github.com/avoncourt/pitchvigil/internal/domain"
	"github.com/avoncourt/pitchvigil/internal/ports"
)

const (
	channel  = 0
	velocity = 96
)

// Sink plays each stimulus as a NoteOn, scheduling the matching NoteOff
// after the note duration. The session never waits on the NoteOff.
type Sink struct {
	mu   sync.Mutex
	drv  *rtmididrv.Driver
	out  drivers.Out
	send func(midi.Message) error
	log  *zap.Logger
}

var _ ports.AudioSink = (*Sink)(nil)

// New opens the first MIDI output whose name contains portName
// (case-insensitive); an empty portName selects the first available port.
func New(portName string, log *zap.Logger) (*Sink, error) {
	if log == nil {
		log = zap.NewNop()
	}

	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("midiout: rtmididrv: %w", err)
	}

	out, err := pickOutput(drv, portName)
	if err != nil {
		drv.Close()
		return nil, err
	}
	if err := out.Open(); err != nil {
		drv.Close()
		return nil, fmt.Errorf("midiout: open %q: %w", out.String(), err)
	}

	send, err := midi.SendTo(out)
	if err != nil {
		_ = out.Close()
		drv.Close()
		return nil, fmt.Errorf("midiout: sender for %q: %w", out.String(), err)
	}

	log.Info("midi output connected", zap.String("port", out.String()))
	return &Sink{drv: drv, out: out, send: send, log: log}, nil
}

func pickOutput(drv *rtmididrv.Driver, portName string) (drivers.Out, error) {
	outs, err := drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("midiout: list outputs: %w", err)
	}
	if len(outs) == 0 {
		return nil, fmt.Errorf("midiout: no MIDI outputs available")
	}
	if portName == "" {
		return outs[0], nil
	}

	for _, out := range outs {
		if strings.Contains(strings.ToLower(out.String()), strings.ToLower(portName)) {
			return out, nil
		}
	}

	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return nil, fmt.Errorf("midiout: no output matches %q (available: %s)", portName, strings.Join(names, ", "))
}

func (s *Sink) Play(pitch domain.Pitch, duration time.Duration) error {
	if !pitch.Valid() {
		return fmt.Errorf("midiout: pitch %d: %w", int(pitch), domain.ErrUnknownPitch)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.send == nil {
		return fmt.Errorf("midiout: sink is closed")
	}

	key := uint8(pitch)
	if err := s.send(midi.NoteOn(channel, key, velocity)); err != nil {
		return fmt.Errorf("midiout: note on %s: %w", pitch.Name(), err)
	}

	time.AfterFunc(duration, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.send == nil {
			return
		}
		if err := s.send(midi.NoteOff(channel, key)); err != nil {
			s.log.Debug("note off failed", zap.String("pitch", pitch.Name()), zap.Error(err))
		}
	})

	return nil
}

// Preload is a no-op: the receiving synthesizer owns its own voices.
func (s *Sink) Preload(domain.PitchSet) error { return nil }

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.send == nil {
		return nil
	}
	s.send = nil

	err := s.out.Close()
	s.drv.Close()
	if err != nil {
		return fmt.Errorf("midiout: close output: %w", err)
	}
	return nil
}
