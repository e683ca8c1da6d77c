package score

import (
	"math"
	"time"

	"github.com/avoncourt/pitchvigil/internal/domain"
)

func Summarize(trials []domain.Trial, window time.Duration) domain.Summary {
	var s domain.Summary
	for _, trial := range trials {
		switch trial.Outcome(window) {
		case domain.OutcomeHit:
			s.Hits++
		case domain.OutcomeMiss:
			s.Misses++
		case domain.OutcomeFalseAlarm:
			s.FalseAlarms++
		case domain.OutcomeCorrectRejection:
			s.CorrectRejections++
		}
	}

	s.HitRate = rate(s.Hits, s.Hits+s.Misses)
	s.FalseAlarmRate = rate(s.FalseAlarms, s.FalseAlarms+s.CorrectRejections)
	s.DPrime = DPrime(s.Hits, s.Misses, s.FalseAlarms, s.CorrectRejections)

	reactions := hitReactionTimes(trials, window)
	s.MeanReactionMs = mean(reactions)
	s.ReactionStdDevMs = stdDev(reactions)

	return s
}

// DPrime computes the sensitivity index with the log-linear correction, so
// perfect or empty hit/false-alarm rates stay finite.
func DPrime(hits, misses, falseAlarms, correctRejections int) float64 {
	hitRate := (float64(hits) + 0.5) / (float64(hits+misses) + 1)
	faRate := (float64(falseAlarms) + 0.5) / (float64(falseAlarms+correctRejections) + 1)
	return probit(hitRate) - probit(faRate)
}

func probit(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}

func rate(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

func hitReactionTimes(trials []domain.Trial, window time.Duration) []float64 {
	var reactions []float64
	for _, trial := range trials {
		if trial.Outcome(window) != domain.OutcomeHit {
			continue
		}
		reaction, ok := trial.ReactionTime()
		if !ok {
			continue
		}
		reactions = append(reactions, float64(reaction)/float64(time.Millisecond))
	}
	return reactions
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		diff := v - m
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values)))
}
