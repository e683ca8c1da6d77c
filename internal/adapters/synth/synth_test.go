package synth

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoncourt/pitchvigil/internal/domain"
)

func TestRenderIsPure(t *testing.T) {
	t.Parallel()

	first := Render(69, 250*time.Millisecond, SampleRate, DefaultGain, DefaultFade)
	second := Render(69, 250*time.Millisecond, SampleRate, DefaultGain, DefaultFade)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestRenderLengthAndBounds(t *testing.T) {
	t.Parallel()

	duration := 500 * time.Millisecond
	samples := Render(60, duration, SampleRate, DefaultGain, DefaultFade)

	require.Len(t, samples, SampleRate/2)
	for _, sample := range samples {
		assert.LessOrEqual(t, math.Abs(float64(sample)), DefaultGain+1e-6)
	}
}

func TestRenderFadeEdges(t *testing.T) {
	t.Parallel()

	samples := Render(69, 200*time.Millisecond, SampleRate, DefaultGain, DefaultFade)
	require.NotEmpty(t, samples)

	assert.Zero(t, samples[0])
	assert.Zero(t, samples[len(samples)-1])

	fadeSamples := int(float64(SampleRate) * DefaultFade.Seconds())
	peak := float32(0)
	for _, sample := range samples[fadeSamples : len(samples)-fadeSamples] {
		if abs := float32(math.Abs(float64(sample))); abs > peak {
			peak = abs
		}
	}
	assert.InDelta(t, DefaultGain, float64(peak), 0.01, "steady-state peak should reach the gain")
}

func TestRenderFrequency(t *testing.T) {
	t.Parallel()

	// Count zero crossings on A4 without fades: a 440 Hz sine crosses
	// zero 880 times per second.
	samples := Render(69, time.Second, SampleRate, DefaultGain, 0)
	require.NotEmpty(t, samples)

	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] < 0) != (samples[i] < 0) {
			crossings++
		}
	}
	assert.InDelta(t, 880, crossings, 2)
}

func TestBankCachesBuffers(t *testing.T) {
	t.Parallel()

	bank := NewBank(100 * time.Millisecond)

	first, err := bank.Buffer(69)
	require.NoError(t, err)
	second, err := bank.Buffer(69)
	require.NoError(t, err)

	assert.Same(t, &first[0], &second[0], "second lookup should hit the cache")
}

func TestBankRenderHonorsRequestedDuration(t *testing.T) {
	t.Parallel()

	bank := NewBank(100 * time.Millisecond)

	short, err := bank.Render(69, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Len(t, short, SampleRate/20)

	// The bank's own note duration is served from the cache.
	cached, err := bank.Render(69, 100*time.Millisecond)
	require.NoError(t, err)
	viaBuffer, err := bank.Buffer(69)
	require.NoError(t, err)
	assert.Same(t, &cached[0], &viaBuffer[0])

	// Off-duration renders must not displace the cached buffer.
	again, err := bank.Buffer(69)
	require.NoError(t, err)
	assert.Len(t, again, SampleRate/10)

	_, err = bank.Render(domain.Pitch(200), 50*time.Millisecond)
	require.ErrorIs(t, err, domain.ErrUnknownPitch)
}

func TestBankRejectsUnknownPitch(t *testing.T) {
	t.Parallel()

	bank := NewBank(100 * time.Millisecond)

	_, err := bank.Buffer(domain.Pitch(200))
	require.ErrorIs(t, err, domain.ErrUnknownPitch)
}

func TestBankPreload(t *testing.T) {
	t.Parallel()

	bank := NewBank(50 * time.Millisecond)
	set := domain.DefaultPitchSet()

	require.NoError(t, bank.Preload(set))
	for _, pitch := range set {
		buffer, err := bank.Buffer(pitch)
		require.NoError(t, err)
		assert.NotEmpty(t, buffer)
	}
}

func TestEncodeWAVHeader(t *testing.T) {
	t.Parallel()

	samples := Render(60, 100*time.Millisecond, SampleRate, DefaultGain, DefaultFade)

	var buf bytes.Buffer
	require.NoError(t, EncodeWAV(&buf, samples, SampleRate))

	data := buf.Bytes()
	require.Greater(t, len(data), wavHeaderSize)

	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "fmt ", string(data[12:16]))
	assert.Equal(t, "data", string(data[36:40]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:24]), "mono")
	assert.Equal(t, uint32(SampleRate), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(t, uint32(len(samples)*bytesPerSample), binary.LittleEndian.Uint32(data[40:44]))
	assert.Len(t, data, wavHeaderSize+len(samples)*bytesPerSample)
}

func TestClipToInt16(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int16(math.MaxInt16), clipToInt16(1.5))
	assert.Equal(t, int16(math.MinInt16), clipToInt16(-1.5))
	assert.Equal(t, int16(0), clipToInt16(0))
}
