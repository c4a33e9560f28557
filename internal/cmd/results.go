package cmd

import (
	"errors"
	"fmt"

	"github.com/harrison/neuroscreen/internal/display"
	"github.com/harrison/neuroscreen/internal/questions"
	"github.com/harrison/neuroscreen/internal/scoring"
	"github.com/harrison/neuroscreen/internal/store"
	"github.com/spf13/cobra"
)

// NewResultsCommand creates the 'neuroscreen results' command
func NewResultsCommand() *cobra.Command {
	var details bool

	cmd := &cobra.Command{
		Use:       "results <adhd|autism>",
		Short:     "Show the scored result of a submitted questionnaire",
		Args:      cobra.ExactArgs(1),
		ValidArgs: instrumentNames(),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			inst, err := instrumentArg(args)
			if err != nil {
				return err
			}

			rec, err := a.store.LoadSubmission(cmd.Context(), inst)
			if errors.Is(err, store.ErrNotFound) {
				fmt.Fprintln(a.out, display.NoResults)
				return nil
			}
			if err != nil {
				return fmt.Errorf("load results: %w", err)
			}

			if len(rec.Dropped) > 0 {
				a.log.LogWarn(fmt.Sprintf("%d stored answer(s) were malformed and were not scored", len(rec.Dropped)))
			}
			// Results imported from the oldest browser layout carry no date
			if !rec.CompletedAt.IsZero() {
				fmt.Fprintf(a.out, "Completed %s\n\n", rec.CompletedAt.Local().Format("2006-01-02 15:04"))
			}
			return renderResult(a, inst, rec.Responses, details)
		}),
	}

	cmd.Flags().BoolVar(&details, "details", false, "Show how each question was answered and scored")
	return cmd
}

// renderResult scores responses and prints the result, optionally with the
// per-question breakdown.
func renderResult(a *app, inst questions.Instrument, responses []scoring.Response, details bool) error {
	if unknown := scoring.UnknownResponses(inst, responses); len(unknown) > 0 {
		a.log.LogWarn(fmt.Sprintf("%d stored answer(s) reference unknown questions and were not scored", len(unknown)))
	}

	switch inst {
	case questions.ADHD:
		display.RenderADHDResult(a.out, scoring.ScoreADHD(responses), a.color)
		if details {
			b := scoring.BreakdownADHD(responses)
			fmt.Fprintln(a.out)
			display.RenderBreakdown(a.out, "Part A", b.PartA, a.color)
			fmt.Fprintln(a.out)
			display.RenderBreakdown(a.out, "Part B", b.PartB, a.color)
		}
	case questions.Autism:
		display.RenderAutismResult(a.out, scoring.ScoreAutism(responses), a.color)
		if details {
			fmt.Fprintln(a.out)
			display.RenderBreakdown(a.out, "Questions", scoring.BreakdownAutism(responses), a.color)
		}
	default:
		return fmt.Errorf("%w: %q", questions.ErrUnknownInstrument, inst)
	}
	return nil
}
