package audio

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoncourt/pitchvigil/internal/domain"
	"github.com/avoncourt/pitchvigil/internal/ports"
)

type fakeSink struct {
	playErr    error
	preloadErr error
	closeErr   error

	plays    []domain.Pitch
	preloads int
	closed   bool
}

var _ ports.AudioSink = (*fakeSink)(nil)

func (f *fakeSink) Play(pitch domain.Pitch, _ time.Duration) error {
	if f.playErr != nil {
		return f.playErr
	}
	f.plays = append(f.plays, pitch)
	return nil
}

func (f *fakeSink) Preload(domain.PitchSet) error {
	if f.preloadErr != nil {
		return f.preloadErr
	}
	f.preloads++
	return nil
}

func (f *fakeSink) Close() error {
	f.closed = true
	return f.closeErr
}

func TestChainPlayUsesPrimaryWhenItSucceeds(t *testing.T) {
	t.Parallel()

	primary := &fakeSink{}
	fallback := &fakeSink{}
	chain, err := NewChain(primary, fallback)
	require.NoError(t, err)

	require.NoError(t, chain.Play(69, time.Second))
	assert.Equal(t, []domain.Pitch{69}, primary.plays)
	assert.Empty(t, fallback.plays)
}

func TestChainPlayFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := &fakeSink{playErr: errors.New("device gone")}
	fallback := &fakeSink{}
	chain, err := NewChain(primary, fallback)
	require.NoError(t, err)

	require.NoError(t, chain.Play(69, time.Second))
	assert.Equal(t, []domain.Pitch{69}, fallback.plays)
}

func TestChainPlayCombinesErrorsWhenBothFail(t *testing.T) {
	t.Parallel()

	primary := &fakeSink{playErr: errors.New("device gone")}
	fallback := &fakeSink{playErr: errors.New("also gone")}
	chain, err := NewChain(primary, fallback)
	require.NoError(t, err)

	err = chain.Play(69, time.Second)
	require.Error(t, err)
	assert.ErrorContains(t, err, "primary sink")
	assert.ErrorContains(t, err, "fallback sink")
	assert.ErrorContains(t, err, "device gone")
	assert.ErrorContains(t, err, "also gone")
}

func TestChainPlayDoesNotMaskUnknownPitch(t *testing.T) {
	t.Parallel()

	primary := &fakeSink{playErr: domain.ErrUnknownPitch}
	fallback := &fakeSink{}
	chain, err := NewChain(primary, fallback)
	require.NoError(t, err)

	err = chain.Play(200, time.Second)
	require.ErrorIs(t, err, domain.ErrUnknownPitch)
	assert.Empty(t, fallback.plays)
}

func TestChainPreloadFallsBack(t *testing.T) {
	t.Parallel()

	primary := &fakeSink{preloadErr: errors.New("no context")}
	fallback := &fakeSink{}
	chain, err := NewChain(primary, fallback)
	require.NoError(t, err)

	require.NoError(t, chain.Preload(domain.DefaultPitchSet()))
	assert.Equal(t, 1, fallback.preloads)
}

func TestChainCloseClosesBoth(t *testing.T) {
	t.Parallel()

	primary := &fakeSink{closeErr: errors.New("close failed")}
	fallback := &fakeSink{}
	chain, err := NewChain(primary, fallback)
	require.NoError(t, err)

	err = chain.Close()
	require.Error(t, err)
	assert.True(t, primary.closed)
	assert.True(t, fallback.closed)
}

func TestNewChainRejectsNilSinks(t *testing.T) {
	t.Parallel()

	_, err := NewChain(nil, &fakeSink{})
	require.Error(t, err)

	_, err = NewChain(&fakeSink{}, nil)
	require.Error(t, err)
}
