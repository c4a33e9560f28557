package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/harrison/neuroscreen/internal/logger"
	"github.com/harrison/neuroscreen/internal/questionnaire"
	"github.com/harrison/neuroscreen/internal/questions"
)

// RenderQuestion prints the current question of a session.
func RenderQuestion(w io.Writer, v questionnaire.View, colorOutput bool) {
	if v.Loading {
		fmt.Fprintln(w, "Loading saved progress...")
		return
	}

	header := fmt.Sprintf("%s  Question %d of %d", v.Instrument.Label(), v.Index+1, v.Total)
	if v.Question.Part != questions.PartNone {
		header += fmt.Sprintf("  (Part %s)", v.Question.Part)
	}
	fmt.Fprintln(w, paint(colorOutput, header, color.Bold))

	bar := logger.NewProgressBar(v.Total, 20, colorOutput)
	bar.SetPrefix("Progress ")
	bar.Update(v.Index + 1)
	fmt.Fprintln(w, bar.Render())
	fmt.Fprintln(w)

	fmt.Fprintln(w, v.Question.Text)
	for i, opt := range v.Question.Options {
		marker := " "
		line := fmt.Sprintf("  [%d] %s", i, opt)
		if v.Selected != nil && *v.Selected == i {
			marker = "*"
			line = paint(colorOutput, fmt.Sprintf("  [%d] %s", i, opt), color.FgCyan, color.Bold)
		}
		fmt.Fprintf(w, "%s%s\n", marker, line)
	}
	fmt.Fprintln(w)

	if v.State == questionnaire.StateSubmitted {
		fmt.Fprintln(w, "Submitted. Run 'results' to see your score or 'retake' to start over.")
		return
	}
	fmt.Fprintln(w, paint(colorOutput, navigationHint(v), color.FgHiBlack))
}

func navigationHint(v questionnaire.View) string {
	hint := fmt.Sprintf("0-%d answer", len(v.Question.Options)-1)
	if v.CanGoPrevious {
		hint += "  p previous"
	}
	switch {
	case v.IsLast && v.Selected != nil:
		hint += "  s submit"
	case v.CanGoNext:
		hint += "  n next"
	}
	return hint + "  q quit"
}
