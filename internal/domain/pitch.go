package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Pitch int

const (
	MinPitch Pitch = 0
	MaxPitch Pitch = 127

	referencePitch     = 69
	referenceFrequency = 440.0
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (p Pitch) Valid() bool {
	return p >= MinPitch && p <= MaxPitch
}

func (p Pitch) Frequency() float64 {
	return referenceFrequency * math.Pow(2, float64(p-referencePitch)/12)
}

// Name renders the pitch in scientific notation, e.g. 69 -> "A4".
func (p Pitch) Name() string {
	if !p.Valid() {
		return fmt.Sprintf("pitch(%d)", int(p))
	}

	octave := int(p)/12 - 1
	return fmt.Sprintf("%s%d", noteNames[int(p)%12], octave)
}

func ParsePitch(input string) (Pitch, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, fmt.Errorf("pitch is empty")
	}

	if number, err := strconv.Atoi(trimmed); err == nil {
		pitch := Pitch(number)
		if !pitch.Valid() {
			return 0, fmt.Errorf("pitch %d out of range [%d, %d]", number, MinPitch, MaxPitch)
		}
		return pitch, nil
	}

	return parseNoteName(trimmed)
}

func parseNoteName(input string) (Pitch, error) {
	upper := strings.ToUpper(input)

	nameLen := 1
	if len(upper) > 1 && upper[1] == '#' {
		nameLen = 2
	}
	if len(upper) <= nameLen {
		return 0, fmt.Errorf("invalid pitch %q", input)
	}

	class := -1
	for i, name := range noteNames {
		if name == upper[:nameLen] {
			class = i
			break
		}
	}
	if class < 0 {
		return 0, fmt.Errorf("invalid pitch %q", input)
	}

	octave, err := strconv.Atoi(upper[nameLen:])
	if err != nil {
		return 0, fmt.Errorf("invalid pitch %q", input)
	}

	pitch := Pitch((octave+1)*12 + class)
	if !pitch.Valid() {
		return 0, fmt.Errorf("pitch %q out of range [%s, %s]", input, MinPitch.Name(), MaxPitch.Name())
	}

	return pitch, nil
}

type PitchSet []Pitch

func DefaultPitchSet() PitchSet {
	return PitchSet{60, 62, 64, 65, 67, 69, 71, 72}
}

func (s PitchSet) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("pitch set is empty")
	}

	seen := make(map[Pitch]struct{}, len(s))
	for _, p := range s {
		if !p.Valid() {
			return fmt.Errorf("pitch %d out of range [%d, %d]", int(p), MinPitch, MaxPitch)
		}
		if _, ok := seen[p]; ok {
			return fmt.Errorf("duplicate pitch %s", p.Name())
		}
		seen[p] = struct{}{}
	}

	return nil
}

func (s PitchSet) Contains(p Pitch) bool {
	for _, member := range s {
		if member == p {
			return true
		}
	}
	return false
}

func (s PitchSet) Without(excluded ...Pitch) PitchSet {
	kept := make(PitchSet, 0, len(s))
	for _, member := range s {
		drop := false
		for _, ex := range excluded {
			if member == ex {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, member)
		}
	}
	return kept
}

func (s PitchSet) Names() []string {
	names := make([]string, len(s))
	for i, p := range s {
		names[i] = p.Name()
	}
	return names
}
