package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/avoncourt/pitchvigil/internal/domain"
)

// Built-in sets available without any pitch-sets file on disk.
var builtinPitchSets = map[string]domain.PitchSet{
	"cmajor":     {60, 62, 64, 65, 67, 69, 71, 72},
	"chromatic":  {60, 61, 62, 63, 64, 65, 66, 67, 68, 69, 70, 71},
	"pentatonic": {60, 62, 64, 67, 69, 72, 74, 76},
	"wholetone":  {60, 62, 64, 66, 68, 70, 72, 74},
}

// DefaultPitchSetName matches domain.DefaultPitchSet.
const DefaultPitchSetName = "cmajor"

// PitchSets resolves named pitch sets from an optional TOML file layered
// over the built-in sets. File entries shadow built-ins of the same name.
type PitchSets struct {
	sets map[string]domain.PitchSet
}

// LoadPitchSets reads the pitch-sets file at path. A missing file is not
// an error: the built-in sets alone are returned.
func LoadPitchSets(path string) (*PitchSets, error) {
	sets := make(map[string]domain.PitchSet, len(builtinPitchSets))
	for name, set := range builtinPitchSets {
		sets[name] = set
	}

	if path != "" {
		fileSets, err := readPitchSetsFile(path)
		if err != nil {
			return nil, err
		}
		for name, set := range fileSets {
			sets[name] = set
		}
	}

	return &PitchSets{sets: sets}, nil
}

func readPitchSetsFile(path string) (map[string]domain.PitchSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read pitch sets file: %w", err)
	}

	var file pitchSetsFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode pitch sets file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return nil, err
	}
	file.applyDefaults()

	sets := make(map[string]domain.PitchSet, len(file.Sets))
	for _, entry := range file.Sets {
		name := strings.ToLower(strings.TrimSpace(entry.Name))
		if name == "" {
			return nil, fmt.Errorf("pitch set with empty name in %s", path)
		}

		set := make(domain.PitchSet, 0, len(entry.Pitches))
		for _, raw := range entry.Pitches {
			pitch, err := domain.ParsePitch(raw)
			if err != nil {
				return nil, fmt.Errorf("pitch set %q: %w", name, err)
			}
			set = append(set, pitch)
		}
		if err := set.Validate(); err != nil {
			return nil, fmt.Errorf("pitch set %q: %w", name, err)
		}

		sets[name] = set
	}

	return sets, nil
}

// Get returns the named set, or ErrPitchSetNotFound.
func (p *PitchSets) Get(name string) (domain.PitchSet, error) {
	set, ok := p.sets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("pitch set %q: %w", name, domain.ErrPitchSetNotFound)
	}
	return set, nil
}

// Names lists the available set names, sorted.
func (p *PitchSets) Names() []string {
	names := make([]string, 0, len(p.sets))
	for name := range p.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
