package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRetakeCommand creates the 'neuroscreen retake' command
func NewRetakeCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "retake <adhd|autism>",
		Short: "Discard saved answers and results and start over",
		Long: `Remove the saved progress and the submitted result for an instrument so
the questionnaire can be taken again from the first question.

This action cannot be undone.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: instrumentNames(),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			inst, err := instrumentArg(args)
			if err != nil {
				return err
			}

			if !yes {
				prompt := fmt.Sprintf("This will delete your saved %s answers and results.", inst.Label())
				if !confirmAction(cmd.InOrStdin(), a.out, prompt) {
					fmt.Fprintln(a.out, "Operation cancelled.")
					return nil
				}
			}

			c, err := a.session(cmd.Context(), inst)
			if err != nil {
				return err
			}
			if err := c.Retake(cmd.Context()); err != nil {
				return fmt.Errorf("retake %s: %w", inst, describe(err))
			}

			fmt.Fprintf(a.out, "Cleared %s. Run 'neuroscreen take %s' to begin again.\n", inst.Label(), inst)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
