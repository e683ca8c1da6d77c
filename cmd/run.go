package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	audiochain "github.com/avoncourt/pitchvigil/internal/adapters/audio"
	"github.com/avoncourt/pitchvigil/internal/adapters/midiout"
	"github.com/avoncourt/pitchvigil/internal/adapters/speaker"
	"github.com/avoncourt/pitchvigil/internal/adapters/synth"
	"github.com/avoncourt/pitchvigil/internal/adapters/tui"
	"github.com/avoncourt/pitchvigil/internal/application"
	"github.com/avoncourt/pitchvigil/internal/domain"
	"github.com/avoncourt/pitchvigil/internal/ports"
	"github.com/avoncourt/pitchvigil/internal/sequence"
)

type runFlags struct {
	trials       int
	targets      int
	interOnset   time.Duration
	window       time.Duration
	preview      time.Duration
	noteDuration time.Duration
	noRepeats    bool
	target       string
	pitchSet     string
	seed         int64
	mute         bool
	midi         string
	asJSON       bool
}

func newRunCmd(app *app) *cobra.Command {
	flags := runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a detection session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildTaskConfig(cmd, app, flags)
			if err != nil {
				return err
			}

			sink := buildSink(app, flags, cfg)
			defer func() {
				if err := sink.Close(); err != nil {
					app.log.Warn("close audio sink", zap.Error(err))
				}
			}()

			if err := runPreloadSpinner(cmd.Context(), cmd.ErrOrStderr(), func() error {
				return sink.Preload(cfg.Pitches)
			}); err != nil {
				app.log.Warn("preload failed, continuing", zap.Error(err))
			}

			opts := []application.Option{}
			if cmd.Flags().Changed("seed") {
				opts = append(opts, application.WithGenerator(sequence.NewSeededGenerator(flags.seed)))
			}
			service := application.NewSessionService(sink, app.log, opts...)
			defer service.Reset()

			program := tea.NewProgram(
				tui.New(service, cfg),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithContext(cmd.Context()),
			)
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("run session ui: %w", err)
			}

			return writeRunOutput(cmd, service, flags.asJSON)
		},
	}

	defaults := app.settings.TaskConfig()
	cmd.Flags().IntVar(&flags.trials, "trials", defaults.TotalTrials, "number of trials in the sequence")
	cmd.Flags().IntVar(&flags.targets, "targets", defaults.NumTargets, "number of target trials")
	cmd.Flags().DurationVar(&flags.interOnset, "inter-onset", defaults.InterOnset, "interval between tone onsets")
	cmd.Flags().DurationVar(&flags.window, "window", defaults.ResponseWindow, "response window after each onset")
	cmd.Flags().DurationVar(&flags.preview, "preview", defaults.TargetPreview, "target preview duration before the first trial")
	cmd.Flags().DurationVar(&flags.noteDuration, "note-duration", defaults.NoteDuration, "tone duration")
	cmd.Flags().BoolVar(&flags.noRepeats, "no-repeats", !defaults.AllowImmediateRepeat, "avoid the same pitch on consecutive trials")
	cmd.Flags().StringVar(&flags.target, "target", "", "fixed target pitch (MIDI number or note name, e.g. A4); random when unset")
	cmd.Flags().StringVar(&flags.pitchSet, "pitch-set", app.settings.PitchSetName, "named pitch set to draw stimuli from")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "seed for a reproducible trial sequence")
	cmd.Flags().BoolVar(&flags.mute, "mute", false, "run without audio output")
	cmd.Flags().StringVar(&flags.midi, "midi", "", "send tones to a MIDI output port matching this name instead of the speaker")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "print the final summary as JSON")

	return cmd
}

func buildTaskConfig(cmd *cobra.Command, app *app, flags runFlags) (domain.TaskConfig, error) {
	cfg := app.settings.TaskConfig()
	cfg.TotalTrials = flags.trials
	cfg.NumTargets = flags.targets
	cfg.InterOnset = flags.interOnset
	cfg.ResponseWindow = flags.window
	cfg.TargetPreview = flags.preview
	cfg.NoteDuration = flags.noteDuration
	if cmd.Flags().Changed("no-repeats") {
		cfg.AllowImmediateRepeat = !flags.noRepeats
	}

	set, err := app.pitchSets.Get(flags.pitchSet)
	if err != nil {
		return domain.TaskConfig{}, fmt.Errorf("resolve pitch set: %w", err)
	}
	cfg.Pitches = set

	if flags.target != "" {
		pitch, err := domain.ParsePitch(flags.target)
		if err != nil {
			return domain.TaskConfig{}, fmt.Errorf("parse target pitch: %w", err)
		}
		cfg.Target = domain.FixedTarget(pitch)
	}

	if err := cfg.Validate(); err != nil {
		return domain.TaskConfig{}, fmt.Errorf("invalid session config: %w", err)
	}

	return cfg, nil
}

// buildSink picks the audio path. A failed speaker or MIDI setup never
// aborts the session: the run degrades to silence and scoring proceeds.
func buildSink(app *app, flags runFlags, cfg domain.TaskConfig) ports.AudioSink {
	if flags.mute {
		return ports.NopSink{}
	}

	if flags.midi != "" {
		sink, err := midiout.New(flags.midi, app.log)
		if err != nil {
			app.log.Warn("midi output unavailable, running muted", zap.Error(err))
			return ports.NopSink{}
		}
		return sink
	}

	bank := synth.NewBank(cfg.NoteDuration)
	sink, err := speaker.New(bank, app.log)
	if err != nil {
		app.log.Warn("audio device unavailable, running muted", zap.Error(err))
		return ports.NopSink{}
	}

	chain, err := audiochain.NewChain(sink, ports.NopSink{})
	if err != nil {
		return sink
	}
	return chain
}

func writeRunOutput(cmd *cobra.Command, service *application.SessionService, asJSON bool) error {
	snap := service.Snapshot()
	if snap.Summary == nil {
		return nil
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snap.Summary)
	}

	return nil
}
