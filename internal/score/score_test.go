package score

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoncourt/pitchvigil/internal/domain"
)

func TestSummarizeClassification(t *testing.T) {
	t.Parallel()

	window := 1750 * time.Millisecond
	onset := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	trials := []domain.Trial{
		{
			Index:       0,
			IsTarget:    true,
			OnsetAt:     onset,
			RespondedAt: onset.Add(500 * time.Millisecond),
			Responded:   true,
		},
		{Index: 1, IsTarget: true, OnsetAt: onset.Add(2 * time.Second)},
		{
			Index:       2,
			OnsetAt:     onset.Add(4 * time.Second),
			RespondedAt: onset.Add(4*time.Second + 100*time.Millisecond),
			Responded:   true,
		},
		{Index: 3, OnsetAt: onset.Add(6 * time.Second)},
	}

	summary := Summarize(trials, window)

	assert.Equal(t, 1, summary.Hits)
	assert.Equal(t, 1, summary.Misses)
	assert.Equal(t, 1, summary.FalseAlarms)
	assert.Equal(t, 1, summary.CorrectRejections)
	assert.Equal(t, 4, summary.TotalTrials())
	assert.InDelta(t, 0.5, summary.HitRate, 1e-9)
	assert.InDelta(t, 0.5, summary.FalseAlarmRate, 1e-9)
	assert.InDelta(t, 500.0, summary.MeanReactionMs, 1e-9)
	assert.Zero(t, summary.ReactionStdDevMs)
}

func TestDPrimeStaysFiniteAtExtremeRates(t *testing.T) {
	t.Parallel()

	perfect := DPrime(4, 0, 0, 12)
	require.False(t, math.IsInf(perfect, 0))
	require.False(t, math.IsNaN(perfect))
	assert.Positive(t, perfect)

	hopeless := DPrime(0, 4, 12, 0)
	require.False(t, math.IsInf(hopeless, 0))
	assert.Negative(t, hopeless)
}

func TestDPrimeOrdersSensitivity(t *testing.T) {
	t.Parallel()

	sharp := DPrime(4, 0, 0, 12)
	blunt := DPrime(2, 2, 2, 10)

	assert.Greater(t, sharp, blunt)
}

func TestDPrimeKnownValues(t *testing.T) {
	t.Parallel()

	// Equal hit and false-alarm rates carry no sensitivity.
	assert.InDelta(t, 0.0, DPrime(2, 2, 2, 2), 1e-12)

	// Corrected rates 0.9 and 0.1 are symmetric around chance, so
	// d' = 2 * probit(0.9).
	assert.InDelta(t, 2*1.2815515655446004, DPrime(4, 0, 0, 4), 1e-9)
}

func TestSummarizeReactionStats(t *testing.T) {
	t.Parallel()

	window := time.Second
	onset := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	trials := []domain.Trial{
		{
			IsTarget:    true,
			OnsetAt:     onset,
			RespondedAt: onset.Add(400 * time.Millisecond),
			Responded:   true,
		},
		{
			IsTarget:    true,
			OnsetAt:     onset.Add(2 * time.Second),
			RespondedAt: onset.Add(2*time.Second + 600*time.Millisecond),
			Responded:   true,
		},
		{
			// Late response counts as a miss and is excluded from
			// the reaction stats.
			IsTarget:    true,
			OnsetAt:     onset.Add(4 * time.Second),
			RespondedAt: onset.Add(4*time.Second + 1500*time.Millisecond),
			Responded:   true,
		},
	}

	summary := Summarize(trials, window)

	assert.Equal(t, 2, summary.Hits)
	assert.Equal(t, 1, summary.Misses)
	assert.InDelta(t, 500.0, summary.MeanReactionMs, 1e-9)
	assert.InDelta(t, 100.0, summary.ReactionStdDevMs, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	summary := Summarize(nil, time.Second)

	assert.Zero(t, summary.Hits)
	assert.Zero(t, summary.HitRate)
	assert.Zero(t, summary.MeanReactionMs)
	assert.False(t, math.IsNaN(summary.DPrime))
}
