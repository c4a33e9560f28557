package cmd

import (
	"fmt"

	"github.com/harrison/neuroscreen/internal/analytics"
	"github.com/spf13/cobra"
)

// NewStatsCommand creates the 'neuroscreen stats' command
func NewStatsCommand() *cobra.Command {
	var asJSON, reset, yes bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show local, anonymous usage counters",
		Long: `Show how often each questionnaire was started, completed and exported
on this machine. Counters never contain answers and never leave the data
directory. Disable them with 'analytics.enabled: false' in the config file.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()

			if reset {
				if !yes && !confirmAction(cmd.InOrStdin(), a.out, "This will reset all usage counters.") {
					fmt.Fprintln(a.out, "Operation cancelled.")
					return nil
				}
				if err := a.tracker.Reset(ctx); err != nil {
					return fmt.Errorf("reset usage stats: %w", err)
				}
				fmt.Fprintln(a.out, "Usage counters reset.")
				return nil
			}

			a.track(ctx, analytics.AnalyticsVisits)

			if asJSON {
				data, err := a.tracker.Export(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, string(data))
				return nil
			}

			stats, err := a.tracker.Stats(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, analytics.Summarize(stats))
			if !a.tracker.Enabled() {
				fmt.Fprintln(a.out)
				fmt.Fprintln(a.out, "Usage tracking is disabled; counters are not being updated.")
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw counters as JSON")
	cmd.Flags().BoolVar(&reset, "reset", false, "Delete all usage counters")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
