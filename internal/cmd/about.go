package cmd

import (
	"fmt"

	"github.com/harrison/neuroscreen/internal/analytics"
	"github.com/harrison/neuroscreen/internal/display"
	"github.com/harrison/neuroscreen/internal/questions"
	"github.com/harrison/neuroscreen/internal/store"
	"github.com/spf13/cobra"
)

// NewAboutCommand creates the 'neuroscreen about' command
func NewAboutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Describe the screening instruments and where data is kept",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			a.track(cmd.Context(), analytics.AboutVisits)

			out := a.out
			fmt.Fprintf(out, "neuroscreen %s\n\n", Version)

			partA, _ := questions.PartitionByPart()
			fmt.Fprintln(out, "Instruments:")
			fmt.Fprintf(out, "  %-18s %d questions; Part A positive at %d of %d\n",
				questions.ADHD.Label(), questions.Count(questions.ADHD), questions.ADHDPartAThreshold, len(partA))
			fmt.Fprintf(out, "  %-18s %d questions; referral suggested at %d of %d\n",
				questions.Autism.Label(), questions.Count(questions.Autism), questions.AutismThreshold, questions.Count(questions.Autism))
			fmt.Fprintln(out)

			if a.dataDir == "" {
				fmt.Fprintln(out, "Storage: in memory (nothing is kept after exit)")
			} else {
				fmt.Fprintf(out, "Storage: %s store in %s\n", a.cfg.Store, a.dataDir)
			}
			if db, ok := a.store.Backend().(*store.SQLiteStore); ok {
				if v, err := db.SchemaVersion(); err == nil {
					fmt.Fprintf(out, "Database schema version %d\n", v)
				}
			}
			fmt.Fprintln(out, "All answers stay on this computer.")
			fmt.Fprintln(out)

			fmt.Fprintln(out, display.Disclaimer)
			return nil
		}),
	}
}
