// Package speaker plays synthesized tones through the default audio
// device via oto.
package speaker

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/hajimehoshi/oto/v2"
	"go.uber.org/zap"

	"github.com/avoncourt/pitchvigil/internal/adapters/synth"
	"github.com/avoncourt/pitchvigil/internal/domain"
	"github.com/avoncourt/pitchvigil/internal/ports"
)

const (
	channelCount = 1
	bitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)

	readyTimeout = 2 * time.Second
	pollInterval = 10 * time.Millisecond
)

// Sink renders through a shared oto context. Play is fire-and-forget:
// each call hands the rendered buffer to a short-lived goroutine and
// returns immediately.
type Sink struct {
	ctx   *oto.Context
	ready chan struct{}
	bank  *synth.Bank
	log   *zap.Logger
}

var _ ports.AudioSink = (*Sink)(nil)

func New(bank *synth.Bank, log *zap.Logger) (*Sink, error) {
	if bank == nil {
		return nil, fmt.Errorf("speaker: tone bank is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}

	ctx, ready, err := oto.NewContext(synth.SampleRate, channelCount, bitDepth)
	if err != nil {
		return nil, fmt.Errorf("speaker: open audio context: %w", err)
	}

	return &Sink{ctx: ctx, ready: ready, bank: bank, log: log}, nil
}

// Play never blocks on the device: readiness is awaited once in Preload,
// and an onset that arrives before the device is up reports an error so
// the caller can degrade instead of stalling the session.
func (s *Sink) Play(pitch domain.Pitch, duration time.Duration) error {
	select {
	case <-s.ready:
	default:
		return fmt.Errorf("speaker: audio device not ready")
	}

	samples, err := s.bank.Render(pitch, duration)
	if err != nil {
		return fmt.Errorf("speaker: %w", err)
	}

	go func() {
		player := s.ctx.NewPlayer(&sampleReader{samples: samples})
		player.Play()
		for player.IsPlaying() {
			time.Sleep(pollInterval)
		}
		if err := player.Close(); err != nil {
			s.log.Debug("close player", zap.Error(err))
		}
	}()

	return nil
}

func (s *Sink) Preload(set domain.PitchSet) error {
	select {
	case <-s.ready:
	case <-time.After(readyTimeout):
		return fmt.Errorf("speaker: audio device not ready after %s", readyTimeout)
	}

	return s.bank.Preload(set)
}

func (s *Sink) Close() error {
	// oto v2 contexts have no Close; the device is released on exit.
	return nil
}

// sampleReader streams float32 samples as little-endian bytes.
type sampleReader struct {
	samples []float32
	pos     int
}

func (r *sampleReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.samples) {
		return 0, io.EOF
	}

	n := 0
	for r.pos < len(r.samples) && n+4 <= len(p) {
		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(r.samples[r.pos]))
		r.pos++
		n += 4
	}

	return n, nil
}
