// Package config loads application settings with viper and resolves
// named pitch sets from TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/avoncourt/pitchvigil/internal/domain"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = "pitchvigil"
	envPrefix  = "PITCHVIGIL"

	keyTotalTrials    = "task.total_trials"
	keyNumTargets     = "task.num_targets"
	keyInterOnsetMs   = "task.inter_onset_ms"
	keyWindowMs       = "task.response_window_ms"
	keyPreviewMs      = "task.target_preview_ms"
	keyNoteDurationMs = "task.note_duration_ms"
	keyAllowRepeats   = "task.allow_immediate_repeat"
	keyPitchSet       = "task.pitch_set"
	keyPitchSetsPath  = "pitch_sets.path"
	keyLogDir         = "log.dir"
)

// Settings is the loaded application configuration: the default task
// parameters plus file locations.
type Settings struct {
	viper *viper.Viper

	PitchSetName  string
	PitchSetsPath string
	LogDir        string
}

// Load reads the config file (if any), applies defaults, and enables the
// PITCHVIGIL_* environment overrides. A nil viper gets a fresh instance.
func Load(cfg *viper.Viper) (*Settings, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	configHome, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config directory: %w", err)
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(configHome, configDir))
	cfg.SetEnvPrefix(envPrefix)
	// Nested keys hold dots; the replacer maps task.total_trials to
	// PITCHVIGIL_TASK_TOTAL_TRIALS so overrides are settable in a shell.
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	setDefaults(cfg, configHome)

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return &Settings{
		viper:         cfg,
		PitchSetName:  cfg.GetString(keyPitchSet),
		PitchSetsPath: cfg.GetString(keyPitchSetsPath),
		LogDir:        cfg.GetString(keyLogDir),
	}, nil
}

func setDefaults(cfg *viper.Viper, configHome string) {
	defaults := domain.DefaultTaskConfig()

	cfg.SetDefault(keyTotalTrials, defaults.TotalTrials)
	cfg.SetDefault(keyNumTargets, defaults.NumTargets)
	cfg.SetDefault(keyInterOnsetMs, int(defaults.InterOnset/time.Millisecond))
	cfg.SetDefault(keyWindowMs, int(defaults.ResponseWindow/time.Millisecond))
	cfg.SetDefault(keyPreviewMs, int(defaults.TargetPreview/time.Millisecond))
	cfg.SetDefault(keyNoteDurationMs, int(defaults.NoteDuration/time.Millisecond))
	cfg.SetDefault(keyAllowRepeats, defaults.AllowImmediateRepeat)
	cfg.SetDefault(keyPitchSet, DefaultPitchSetName)
	cfg.SetDefault(keyPitchSetsPath, filepath.Join(configHome, configDir, "pitch_sets.toml"))
	cfg.SetDefault(keyLogDir, filepath.Join(configHome, configDir, "logs"))
}

// TaskConfig builds the task parameters from the loaded settings. The
// pitch set and target pick are filled in by the caller.
func (s *Settings) TaskConfig() domain.TaskConfig {
	return domain.TaskConfig{
		TotalTrials:          s.viper.GetInt(keyTotalTrials),
		NumTargets:           s.viper.GetInt(keyNumTargets),
		InterOnset:           time.Duration(s.viper.GetInt(keyInterOnsetMs)) * time.Millisecond,
		ResponseWindow:       time.Duration(s.viper.GetInt(keyWindowMs)) * time.Millisecond,
		TargetPreview:        time.Duration(s.viper.GetInt(keyPreviewMs)) * time.Millisecond,
		NoteDuration:         time.Duration(s.viper.GetInt(keyNoteDurationMs)) * time.Millisecond,
		AllowImmediateRepeat: s.viper.GetBool(keyAllowRepeats),
	}
}
