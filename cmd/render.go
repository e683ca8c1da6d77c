package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/avoncourt/pitchvigil/internal/adapters/synth"
)

func newRenderCmd(app *app) *cobra.Command {
	var setName string
	var outDir string
	var noteDuration time.Duration

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Export a pitch set as WAV files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := app.pitchSets.Get(setName)
			if err != nil {
				return fmt.Errorf("resolve pitch set: %w", err)
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			for _, pitch := range set {
				samples := synth.Render(pitch, noteDuration, synth.SampleRate, synth.DefaultGain, synth.DefaultFade)

				name := strings.ReplaceAll(pitch.Name(), "#", "s") + ".wav"
				path := filepath.Join(outDir, name)

				file, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create %s: %w", path, err)
				}
				if err := synth.EncodeWAV(file, samples, synth.SampleRate); err != nil {
					_ = file.Close()
					return fmt.Errorf("encode %s: %w", path, err)
				}
				if err := file.Close(); err != nil {
					return fmt.Errorf("close %s: %w", path, err)
				}

				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path); err != nil {
					return err
				}
			}

			return nil
		},
	}

	defaults := app.settings.TaskConfig()
	cmd.Flags().StringVar(&setName, "pitch-set", app.settings.PitchSetName, "named pitch set to export")
	cmd.Flags().StringVar(&outDir, "out", "tones", "output directory for WAV files")
	cmd.Flags().DurationVar(&noteDuration, "note-duration", defaults.NoteDuration, "tone duration")

	return cmd
}
