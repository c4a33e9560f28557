package cmd

import (
	"github.com/harrison/neuroscreen/internal/analytics"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for neuroscreen
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "neuroscreen",
		Short: "Private ADHD and autism screening questionnaires",
		Long: `neuroscreen administers two validated adult screening questionnaires
on your own machine:

  adhd    Adult ADHD Self-Report Scale (ASRS-v1.1), 18 questions
  autism  Autism Spectrum Quotient (AQ-10), 10 questions

Answers are saved after every step, so a questionnaire can be left and
resumed at any time. Nothing leaves this computer.

This is a screening tool, not a diagnostic instrument. Discuss results with
healthcare professionals.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			a.track(cmd.Context(), analytics.HomeVisits)
			return cmd.Help()
		}),
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "Path to config file (default: $NEUROSCREEN_HOME/config.yaml)")
	flags.String("data-dir", "", "Directory for saved progress and results (default: $NEUROSCREEN_HOME)")
	flags.String("store", "", "Storage backend: file, sqlite or memory")
	flags.String("log-level", "", "Log verbosity: trace, debug, info, warn, error")
	flags.String("color", "", "Color output: auto, always, never")

	cmd.AddCommand(NewQuestionsCommand())
	cmd.AddCommand(NewTakeCommand())
	cmd.AddCommand(NewAnswerCommand())
	cmd.AddCommand(NewNextCommand())
	cmd.AddCommand(NewPrevCommand())
	cmd.AddCommand(NewSubmitCommand())
	cmd.AddCommand(NewStatusCommand())
	cmd.AddCommand(NewResultsCommand())
	cmd.AddCommand(NewExportCommand())
	cmd.AddCommand(NewRetakeCommand())
	cmd.AddCommand(NewStatsCommand())
	cmd.AddCommand(NewImportCommand())
	cmd.AddCommand(NewAboutCommand())

	return cmd
}
