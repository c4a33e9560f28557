package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/harrison/neuroscreen/internal/analytics"
	"github.com/harrison/neuroscreen/internal/display"
	"github.com/harrison/neuroscreen/internal/questionnaire"
	"github.com/spf13/cobra"
)

// One-shot session commands: each loads the saved session, applies a
// single operation and exits. Useful for scripting.

// NewAnswerCommand creates the 'neuroscreen answer' command
func NewAnswerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "answer <adhd|autism> <option>",
		Short: "Answer the current question",
		Long: `Record an option index for the current question. Options are numbered
from 0; run 'neuroscreen status <instrument>' to see them.`,
		Args: cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			option, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("option must be a number, got %q", args[1])
			}
			return oneShot(cmd.Context(), a, args, func(ctx context.Context, c *questionnaire.Controller) error {
				return answer(ctx, a, c, option)
			})
		}),
	}
}

// NewNextCommand creates the 'neuroscreen next' command
func NewNextCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "next <adhd|autism>",
		Short:     "Move to the next question",
		Args:      cobra.ExactArgs(1),
		ValidArgs: instrumentNames(),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			return oneShot(cmd.Context(), a, args, func(ctx context.Context, c *questionnaire.Controller) error {
				return c.Next(ctx)
			})
		}),
	}
}

// NewPrevCommand creates the 'neuroscreen prev' command
func NewPrevCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "prev <adhd|autism>",
		Aliases:   []string{"previous", "back"},
		Short:     "Move back to the previous question",
		Args:      cobra.ExactArgs(1),
		ValidArgs: instrumentNames(),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			return oneShot(cmd.Context(), a, args, func(ctx context.Context, c *questionnaire.Controller) error {
				return c.Previous(ctx)
			})
		}),
	}
}

// NewStatusCommand creates the 'neuroscreen status' command
func NewStatusCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status <adhd|autism>",
		Short: "Show the current question and progress",
		Long: `Show the current question and progress.

With --watch the view is redrawn whenever the session changes, for example
when answers are given from another terminal. Press Ctrl+C to stop.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: instrumentNames(),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if watch {
				return watchStatus(cmd.Context(), a, args)
			}
			return oneShot(cmd.Context(), a, args, nil)
		}),
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Redraw when the saved session changes (file store only)")
	return cmd
}

// NewSubmitCommand creates the 'neuroscreen submit' command
func NewSubmitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <adhd|autism>",
		Short: "Submit a completed questionnaire and show the result",
		Long: `Freeze the answers into a result. The session must be on the final
question with every question answered.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: instrumentNames(),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			inst, err := instrumentArg(args)
			if err != nil {
				return err
			}
			c, err := a.session(cmd.Context(), inst)
			if err != nil {
				return err
			}
			seen := len(c.Warnings())
			if _, err := c.Submit(cmd.Context()); err != nil {
				return describe(err)
			}
			a.reportWarnings(c, seen)
			return renderResult(a, inst, c.Responses(), false)
		}),
	}
}

// oneShot loads a session, applies op (when non-nil) and shows the view.
func oneShot(ctx context.Context, a *app, args []string, op func(context.Context, *questionnaire.Controller) error) error {
	inst, err := instrumentArg(args)
	if err != nil {
		return err
	}
	c, err := a.session(ctx, inst)
	if err != nil {
		return err
	}
	seen := len(c.Warnings())

	if op != nil {
		if err := op(ctx, c); err != nil {
			return describe(err)
		}
		a.reportWarnings(c, seen)
	}

	display.RenderQuestion(a.out, c.View(), a.color)
	return nil
}

// answer records option and counts a start on the first answer of a session.
func answer(ctx context.Context, a *app, c *questionnaire.Controller, option int) error {
	fresh := c.View().Answered == 0
	if err := c.Answer(ctx, option); err != nil {
		return err
	}
	if fresh {
		a.track(ctx, analytics.StartCounter(c.Instrument()))
	}
	v := c.View()
	a.console.LogProgress(string(c.Instrument()), v.Answered, v.Total)
	return nil
}

// describe turns controller conditions into user-facing errors. The
// original error stays reachable through errors.Is.
func describe(err error) error {
	var te *questionnaire.TransitionError
	if errors.As(err, &te) {
		return &userError{msg: fmt.Sprintf("cannot %s: %s", te.Op, te.Reason), err: err}
	}
	if errors.Is(err, questionnaire.ErrNotReady) {
		return &userError{msg: "the questionnaire is still loading", err: err}
	}
	return err
}

type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }
