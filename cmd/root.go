package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pitchvigil",
		Short:         "pitchvigil: an auditory signal-detection task in the terminal",
		Long:          "pitchvigil presents a sequence of tones, collects timed responses to a target pitch, and reports a bias-corrected sensitivity score (d′).",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newRunCmd(app),
		newPitchesCmd(app),
		newRenderCmd(app),
		newVersionCmd(),
	)

	return rootCmd
}
