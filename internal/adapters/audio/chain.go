// Package audio composes sinks: a primary output with a fallback that
// takes over when the primary fails, so a broken audio device degrades
// to a muted but fully scored session.
package audio

import (
	"errors"
	"fmt"
	"time"

	"github.com/avoncourt/pitchvigil/internal/domain"
	"github.com/avoncourt/pitchvigil/internal/ports"
)

type Chain struct {
	primary  ports.AudioSink
	fallback ports.AudioSink
}

var _ ports.AudioSink = (*Chain)(nil)

var (
	errNilPrimarySink  = errors.New("primary audio sink is nil")
	errNilFallbackSink = errors.New("fallback audio sink is nil")
)

func NewChain(primary ports.AudioSink, fallback ports.AudioSink) (*Chain, error) {
	if primary == nil {
		return nil, errNilPrimarySink
	}
	if fallback == nil {
		return nil, errNilFallbackSink
	}

	return &Chain{primary: primary, fallback: fallback}, nil
}

func (c *Chain) Play(pitch domain.Pitch, duration time.Duration) error {
	err := c.primary.Play(pitch, duration)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUnknownPitch) {
		return err
	}

	fallbackErr := c.fallback.Play(pitch, duration)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary sink play failed: %w; fallback sink play failed: %w", err, fallbackErr)
}

func (c *Chain) Preload(set domain.PitchSet) error {
	err := c.primary.Preload(set)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUnknownPitch) {
		return err
	}

	fallbackErr := c.fallback.Preload(set)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary sink preload failed: %w; fallback sink preload failed: %w", err, fallbackErr)
}

func (c *Chain) Close() error {
	err := c.primary.Close()
	fallbackErr := c.fallback.Close()

	if err != nil && fallbackErr != nil {
		return fmt.Errorf("primary sink close failed: %w; fallback sink close failed: %w", err, fallbackErr)
	}
	if err != nil {
		return fmt.Errorf("primary sink close failed: %w", err)
	}
	if fallbackErr != nil {
		return fmt.Errorf("fallback sink close failed: %w", fallbackErr)
	}
	return nil
}
