package ports

import (
	"time"

	"github.com/avoncourt/pitchvigil/internal/domain"
)

// AudioSink plays stimuli fire-and-forget: Play returns as soon as the
// note is handed to the output device, never when it finishes sounding.
type AudioSink interface {
	Play(pitch domain.Pitch, duration time.Duration) error
	Preload(set domain.PitchSet) error
	Close() error
}

type NopSink struct{}

var _ AudioSink = NopSink{}

func (NopSink) Play(domain.Pitch, time.Duration) error { return nil }

func (NopSink) Preload(domain.PitchSet) error { return nil }

func (NopSink) Close() error { return nil }
