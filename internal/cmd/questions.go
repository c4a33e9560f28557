package cmd

import (
	"fmt"

	"github.com/harrison/neuroscreen/internal/analytics"
	"github.com/harrison/neuroscreen/internal/questions"
	"github.com/spf13/cobra"
)

// NewQuestionsCommand creates the 'neuroscreen questions' command
func NewQuestionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "questions <adhd|autism>",
		Short:     "List the questions of a screening instrument",
		Args:      cobra.ExactArgs(1),
		ValidArgs: instrumentNames(),
		RunE:      withApp(runQuestions),
	}
}

func runQuestions(cmd *cobra.Command, a *app, args []string) error {
	inst, err := instrumentArg(args)
	if err != nil {
		return err
	}
	a.track(cmd.Context(), analytics.VisitCounter(inst))

	out := a.out
	bank := questions.List(inst)
	fmt.Fprintf(out, "%s: %d questions\n", inst.Label(), len(bank))
	if inst == questions.ADHD {
		fmt.Fprintf(out, "Part A (questions 1-6) screens positive at %d or more scoring answers.\n\n", questions.ADHDPartAThreshold)
	} else {
		fmt.Fprintf(out, "Scores of %d or more suggest a full assessment may be worthwhile.\n\n", questions.AutismThreshold)
	}

	for n, q := range bank {
		part := ""
		if q.Part != questions.PartNone {
			part = fmt.Sprintf(" [Part %s]", q.Part)
		}
		fmt.Fprintf(out, "%2d. %s%s\n", n+1, q.Text, part)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	for i, opt := range bank[0].Options {
		fmt.Fprintf(out, "  [%d] %s\n", i, opt)
	}
	return nil
}
