package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/harrison/neuroscreen/internal/analytics"
	"github.com/harrison/neuroscreen/internal/display"
	"github.com/harrison/neuroscreen/internal/questionnaire"
	"github.com/spf13/cobra"
)

// NewTakeCommand creates the 'neuroscreen take' command
func NewTakeCommand() *cobra.Command {
	var speak bool

	cmd := &cobra.Command{
		Use:   "take <adhd|autism>",
		Short: "Take a screening questionnaire interactively",
		Long: `Walk through a questionnaire one question at a time. Saved progress is
resumed automatically.

At the prompt:
  0-4   answer the current question and move on
  n     next question
  p     previous question
  s     submit (on the final question, once everything is answered)
  q     quit; progress is kept

With --speak (or tts.enabled in the config file) each question is also read
aloud through the configured speech server.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: instrumentNames(),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			return runTake(cmd, a, args, speak)
		}),
	}

	cmd.Flags().BoolVar(&speak, "speak", false, "Read questions aloud (needs a speech server, see tts in the config)")
	return cmd
}

func runTake(cmd *cobra.Command, a *app, args []string, speak bool) error {
	ctx := cmd.Context()
	inst, err := instrumentArg(args)
	if err != nil {
		return err
	}

	c, err := a.session(ctx, inst)
	if err != nil {
		return err
	}
	a.track(ctx, analytics.TotalSessions)

	if c.View().Answered > 0 {
		fmt.Fprintf(a.out, "Resuming your %s screening where you left off.\n\n", inst.Label())
	}

	voice, client := a.voice(speak)
	if client != nil {
		defer client.Close()
	}

	seen := len(c.Warnings())
	spoken := -1
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		v := c.View()
		display.RenderQuestion(a.out, v, a.color)
		if voice != nil && v.Index != spoken {
			voice.Question(v)
			spoken = v.Index
		}
		fmt.Fprint(a.out, "> ")

		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			fmt.Fprintln(a.out, "Progress saved. Run 'neuroscreen take "+string(inst)+"' to continue.")
			return scanner.Err()
		}

		done, err := takeStep(ctx, a, c, strings.TrimSpace(scanner.Text()))
		seen = a.reportWarnings(c, seen)
		if err != nil {
			fmt.Fprintln(a.errOut, describe(err))
			continue
		}
		if done {
			if voice != nil && c.State() == questionnaire.StateSubmitted {
				voice.Result(inst, c.Responses())
				client.Wait()
			}
			return nil
		}
		fmt.Fprintln(a.out)
	}
}

// takeStep applies one line of input. It reports whether the loop should end.
func takeStep(ctx context.Context, a *app, c *questionnaire.Controller, input string) (bool, error) {
	switch strings.ToLower(input) {
	case "":
		return false, nil
	case "q", "quit", "exit":
		fmt.Fprintln(a.out, "Progress saved.")
		return true, nil
	case "n", "next":
		return false, c.Next(ctx)
	case "p", "prev", "previous", "back":
		return false, c.Previous(ctx)
	case "s", "submit":
		if _, err := c.Submit(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(a.out)
		return true, renderResult(a, c.Instrument(), c.Responses(), false)
	}

	option, err := strconv.Atoi(input)
	if err != nil {
		return false, fmt.Errorf("unrecognised input %q (enter an option number, n, p, s or q)", input)
	}
	if err := answer(ctx, a, c, option); err != nil {
		return false, err
	}
	if !c.View().IsLast {
		return false, c.Next(ctx)
	}
	return false, nil
}
