package sequence

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/avoncourt/pitchvigil/internal/domain"
)

const (
	targetLayoutRetryCap = 128
	distractorRetryCap   = 8
)

// Plan is a fully generated run: the resolved target pitch and the ordered
// trial list. Relaxed reports that a repeat/adjacency constraint had to be
// abandoned after the retry cap, which is a best-effort outcome rather
// than an error.
type Plan struct {
	Target  domain.Pitch
	Trials  []domain.Trial
	Relaxed bool
}

type Generator struct {
	rng *rand.Rand
}

func NewGenerator() *Generator {
	return NewSeededGenerator(time.Now().UnixNano())
}

func NewSeededGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate builds a randomized plan for cfg. When immediate repeats are
// disallowed and the pitch set leaves only one eligible distractor,
// consecutive repeats are accepted and the plan is marked Relaxed.
func (g *Generator) Generate(cfg domain.TaskConfig) (Plan, error) {
	if err := cfg.Validate(); err != nil {
		return Plan{}, fmt.Errorf("invalid task config: %w", err)
	}

	target := g.resolveTarget(cfg)
	slots, relaxed := g.chooseTargetSlots(cfg)

	trials := make([]domain.Trial, cfg.TotalTrials)
	previous := domain.Pitch(-1)
	for i := range trials {
		trials[i].Index = i
		if slots[i] {
			trials[i].IsTarget = true
			trials[i].Pitch = target
		} else {
			pitch, repeated := g.drawDistractor(cfg, target, previous)
			trials[i].Pitch = pitch
			relaxed = relaxed || repeated
		}
		previous = trials[i].Pitch
	}

	return Plan{Target: target, Trials: trials, Relaxed: relaxed}, nil
}

func (g *Generator) resolveTarget(cfg domain.TaskConfig) domain.Pitch {
	if fixed, ok := cfg.Target.Fixed(); ok {
		return fixed
	}
	return cfg.Pitches[g.rng.Intn(len(cfg.Pitches))]
}

func (g *Generator) chooseTargetSlots(cfg domain.TaskConfig) ([]bool, bool) {
	slots := g.randomSlots(cfg.TotalTrials, cfg.NumTargets)
	if cfg.AllowImmediateRepeat || cfg.NumTargets < 2 {
		return slots, false
	}

	for attempt := 0; hasAdjacent(slots) && attempt < targetLayoutRetryCap; attempt++ {
		slots = g.randomSlots(cfg.TotalTrials, cfg.NumTargets)
	}

	return slots, hasAdjacent(slots)
}

func (g *Generator) randomSlots(total, count int) []bool {
	slots := make([]bool, total)
	for _, index := range g.rng.Perm(total)[:count] {
		slots[index] = true
	}
	return slots
}

func hasAdjacent(slots []bool) bool {
	for i := 1; i < len(slots); i++ {
		if slots[i] && slots[i-1] {
			return true
		}
	}
	return false
}

func (g *Generator) drawDistractor(cfg domain.TaskConfig, target, previous domain.Pitch) (domain.Pitch, bool) {
	pool := cfg.Pitches.Without(target)

	pick := pool[g.rng.Intn(len(pool))]
	if cfg.AllowImmediateRepeat || pick != previous {
		return pick, false
	}

	for attempt := 0; attempt < distractorRetryCap; attempt++ {
		pick = pool[g.rng.Intn(len(pool))]
		if pick != previous {
			return pick, false
		}
	}

	fallback := pool.Without(previous)
	if len(fallback) == 0 {
		return pick, true
	}
	return fallback[g.rng.Intn(len(fallback))], false
}
