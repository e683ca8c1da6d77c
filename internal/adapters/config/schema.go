package config

import "fmt"

const currentPitchSetsSchemaVersion = 1

type pitchSetsFileSchema struct {
	Version int              `toml:"version"`
	Sets    []pitchSetSchema `toml:"sets"`
}

func (s *pitchSetsFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentPitchSetsSchemaVersion
	}
}

func (s pitchSetsFileSchema) validateVersion() error {
	if s.Version > currentPitchSetsSchemaVersion {
		return fmt.Errorf("unsupported pitch sets schema version %d (current %d)", s.Version, currentPitchSetsSchemaVersion)
	}

	return nil
}

type pitchSetSchema struct {
	Name    string   `toml:"name"`
	Pitches []string `toml:"pitches"`
}
