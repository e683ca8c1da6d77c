package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avoncourt/pitchvigil/internal/domain"
)

type pitchEntry struct {
	Midi      int     `json:"midi"`
	Name      string  `json:"name"`
	Frequency float64 `json:"frequencyHz"`
}

func newPitchesCmd(app *app) *cobra.Command {
	var setName string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "pitches",
		Short: "List the pitches of a named pitch set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := app.pitchSets.Get(setName)
			if err != nil {
				return fmt.Errorf("resolve pitch set: %w", err)
			}

			return writePitchesOutput(cmd, setName, set, asJSON)
		},
	}

	cmd.Flags().StringVar(&setName, "pitch-set", app.settings.PitchSetName, "named pitch set to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

func writePitchesOutput(cmd *cobra.Command, setName string, set domain.PitchSet, asJSON bool) error {
	entries := make([]pitchEntry, len(set))
	for i, pitch := range set {
		entries[i] = pitchEntry{
			Midi:      int(pitch),
			Name:      pitch.Name(),
			Frequency: pitch.Frequency(),
		}
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "%s (%d pitches)\n", setName, len(entries)); err != nil {
		return err
	}
	for _, entry := range entries {
		if _, err := fmt.Fprintf(out, "  %3d  %-4s %8.2f Hz\n", entry.Midi, entry.Name, entry.Frequency); err != nil {
			return err
		}
	}

	return nil
}
