package domain

import (
	"fmt"
	"time"
)

type Trial struct {
	Index       int
	Pitch       Pitch
	IsTarget    bool
	OnsetAt     time.Time
	RespondedAt time.Time
	Responded   bool
}

func (t Trial) ReactionTime() (time.Duration, bool) {
	if !t.Responded {
		return 0, false
	}
	return t.RespondedAt.Sub(t.OnsetAt), true
}

func (t Trial) RespondedWithin(window time.Duration) bool {
	reaction, ok := t.ReactionTime()
	return ok && reaction <= window
}

type Outcome int

const (
	OutcomeHit Outcome = iota
	OutcomeMiss
	OutcomeFalseAlarm
	OutcomeCorrectRejection
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeMiss:
		return "miss"
	case OutcomeFalseAlarm:
		return "falseAlarm"
	case OutcomeCorrectRejection:
		return "correctRejection"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

func (t Trial) Outcome(window time.Duration) Outcome {
	detected := t.RespondedWithin(window)
	switch {
	case t.IsTarget && detected:
		return OutcomeHit
	case t.IsTarget:
		return OutcomeMiss
	case detected:
		return OutcomeFalseAlarm
	default:
		return OutcomeCorrectRejection
	}
}
