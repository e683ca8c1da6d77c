package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	appconfig "github.com/avoncourt/pitchvigil/internal/adapters/config"
	"github.com/avoncourt/pitchvigil/internal/logging"
)

type app struct {
	settings  *appconfig.Settings
	pitchSets *appconfig.PitchSets
	log       *zap.Logger
}

func wireApp() (*app, error) {
	settings, err := appconfig.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire settings: %w", err)
	}

	pitchSets, err := appconfig.LoadPitchSets(settings.PitchSetsPath)
	if err != nil {
		return nil, fmt.Errorf("wire pitch sets: %w", err)
	}

	log, err := logging.New(settings.LogDir, os.Getenv("PITCHVIGIL_DEBUG") != "")
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	return &app{
		settings:  settings,
		pitchSets: pitchSets,
		log:       log,
	}, nil
}
