// Package synth generates the tone stimuli: a pure sine-wave renderer and
// a per-pitch buffer cache used by the audio sinks and the WAV exporter.
package synth

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/avoncourt/pitchvigil/internal/domain"
)

const (
	// SampleRate is the fixed output rate for every rendered buffer.
	SampleRate = 44100

	// DefaultGain keeps headroom when the preview tone and a trial tone
	// overlap briefly.
	DefaultGain = 0.30

	// DefaultFade is the linear fade-in/out edge that suppresses clicks.
	DefaultFade = 10 * time.Millisecond
)

// Render synthesizes one mono sine tone. The output depends only on the
// arguments, so identical calls yield bit-identical buffers.
func Render(pitch domain.Pitch, duration time.Duration, sampleRate int, gain float64, fade time.Duration) []float32 {
	total := int(float64(sampleRate) * duration.Seconds())
	if total <= 0 {
		return nil
	}

	step := 2 * math.Pi * pitch.Frequency() / float64(sampleRate)
	fadeSamples := int(float64(sampleRate) * fade.Seconds())
	if 2*fadeSamples > total {
		fadeSamples = total / 2
	}

	samples := make([]float32, total)
	phase := 0.0
	for i := range samples {
		value := gain * math.Sin(phase)

		// Phase accumulation with wrap keeps the argument small; calling
		// Sin on an ever-growing t*omega loses precision on long buffers.
		phase += step
		if phase >= 2*math.Pi {
			phase -= 2 * math.Pi
		}

		if fadeSamples > 0 {
			if i < fadeSamples {
				value *= float64(i) / float64(fadeSamples)
			} else if remaining := total - 1 - i; remaining < fadeSamples {
				value *= float64(remaining) / float64(fadeSamples)
			}
		}

		samples[i] = float32(value)
	}

	return samples
}

// Bank caches one rendered buffer per pitch at a fixed note duration.
// Buffers are rendered at most once and never replaced mid-run.
type Bank struct {
	mu       sync.Mutex
	duration time.Duration
	gain     float64
	fade     time.Duration
	buffers  map[domain.Pitch][]float32
}

type Option func(*Bank)

func WithGain(gain float64) Option {
	return func(b *Bank) {
		if gain > 0 {
			b.gain = gain
		}
	}
}

func WithFade(fade time.Duration) Option {
	return func(b *Bank) {
		if fade >= 0 {
			b.fade = fade
		}
	}
}

func NewBank(noteDuration time.Duration, opts ...Option) *Bank {
	b := &Bank{
		duration: noteDuration,
		gain:     DefaultGain,
		fade:     DefaultFade,
		buffers:  make(map[domain.Pitch][]float32),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Buffer returns the cached waveform for pitch, rendering it on first use.
func (b *Bank) Buffer(pitch domain.Pitch) ([]float32, error) {
	if !pitch.Valid() {
		return nil, fmt.Errorf("buffer for pitch %d: %w", int(pitch), domain.ErrUnknownPitch)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if buffer, ok := b.buffers[pitch]; ok {
		return buffer, nil
	}

	buffer := Render(pitch, b.duration, SampleRate, b.gain, b.fade)
	b.buffers[pitch] = buffer
	return buffer, nil
}

// Render returns a waveform for an arbitrary duration. The bank's own
// note duration is served from the cache; any other duration is rendered
// fresh and not cached.
func (b *Bank) Render(pitch domain.Pitch, duration time.Duration) ([]float32, error) {
	if duration == b.duration {
		return b.Buffer(pitch)
	}
	if !pitch.Valid() {
		return nil, fmt.Errorf("render pitch %d: %w", int(pitch), domain.ErrUnknownPitch)
	}

	return Render(pitch, duration, SampleRate, b.gain, b.fade), nil
}

// Preload renders every pitch in the set so the first onset pays no
// synthesis cost.
func (b *Bank) Preload(set domain.PitchSet) error {
	for _, pitch := range set {
		if _, err := b.Buffer(pitch); err != nil {
			return fmt.Errorf("preload %s: %w", pitch.Name(), err)
		}
	}
	return nil
}

func (b *Bank) NoteDuration() time.Duration {
	return b.duration
}
