package domain

import (
	"fmt"
	"time"
)

const (
	DefaultTotalTrials    = 16
	DefaultNumTargets     = 4
	DefaultInterOnset     = 2250 * time.Millisecond
	DefaultResponseWindow = 1750 * time.Millisecond
	DefaultTargetPreview  = 1500 * time.Millisecond
	DefaultNoteDuration   = time.Second
)

type TaskConfig struct {
	TotalTrials          int
	NumTargets           int
	InterOnset           time.Duration
	ResponseWindow       time.Duration
	TargetPreview        time.Duration
	NoteDuration         time.Duration
	AllowImmediateRepeat bool
	Target               TargetPick
	Pitches              PitchSet
}

func DefaultTaskConfig() TaskConfig {
	return TaskConfig{
		TotalTrials:          DefaultTotalTrials,
		NumTargets:           DefaultNumTargets,
		InterOnset:           DefaultInterOnset,
		ResponseWindow:       DefaultResponseWindow,
		TargetPreview:        DefaultTargetPreview,
		NoteDuration:         DefaultNoteDuration,
		AllowImmediateRepeat: true,
		Pitches:              DefaultPitchSet(),
	}
}

func (c TaskConfig) Validate() error {
	if c.TotalTrials <= 0 {
		return fmt.Errorf("total trials must be positive, got %d", c.TotalTrials)
	}
	if c.NumTargets < 0 {
		return fmt.Errorf("target count must not be negative, got %d", c.NumTargets)
	}
	if c.NumTargets > c.TotalTrials {
		return fmt.Errorf("target count %d exceeds total trials %d", c.NumTargets, c.TotalTrials)
	}
	if err := c.Pitches.Validate(); err != nil {
		return fmt.Errorf("pitch set: %w", err)
	}
	if c.NumTargets < c.TotalTrials && len(c.Pitches) < 2 {
		return fmt.Errorf("pitch set needs a distractor pitch besides the target")
	}
	if c.InterOnset <= 0 {
		return fmt.Errorf("inter-onset interval must be positive, got %s", c.InterOnset)
	}
	if c.ResponseWindow <= 0 {
		return fmt.Errorf("response window must be positive, got %s", c.ResponseWindow)
	}
	if c.ResponseWindow > c.InterOnset {
		return fmt.Errorf("response window %s exceeds inter-onset interval %s", c.ResponseWindow, c.InterOnset)
	}
	if c.TargetPreview < 0 {
		return fmt.Errorf("target preview must not be negative, got %s", c.TargetPreview)
	}
	if c.NoteDuration <= 0 {
		return fmt.Errorf("note duration must be positive, got %s", c.NoteDuration)
	}
	if fixed, ok := c.Target.Fixed(); ok && !c.Pitches.Contains(fixed) {
		return fmt.Errorf("fixed target %s is not in the pitch set", fixed.Name())
	}

	return nil
}
