package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/harrison/neuroscreen/internal/questions"
	"github.com/harrison/neuroscreen/internal/scoring"
)

// Disclaimer is printed beneath every result.
const Disclaimer = "This is a screening tool, not a diagnostic instrument. Discuss results with healthcare professionals."

// NoResults is printed when an instrument has no submission yet.
const NoResults = "No results found. Please complete the screening first."

func riskAttrs(r scoring.RiskLevel) []color.Attribute {
	switch r {
	case scoring.RiskHigh:
		return []color.Attribute{color.FgRed, color.Bold}
	case scoring.RiskModerate:
		return []color.Attribute{color.FgYellow, color.Bold}
	default:
		return []color.Attribute{color.FgGreen, color.Bold}
	}
}

// RiskLabel formats a risk tier, e.g. "MODERATE".
func RiskLabel(r scoring.RiskLevel, colorOutput bool) string {
	return paint(colorOutput, strings.ToUpper(string(r)), riskAttrs(r)...)
}

// RenderADHDResult prints an ASRS-v1.1 result.
func RenderADHDResult(w io.Writer, res scoring.ADHDResult, colorOutput bool) {
	maxA, maxB, maxTotal := scoring.ADHDMax()

	fmt.Fprintln(w, paint(colorOutput, questions.ADHD.Label()+" results", color.Bold))
	fmt.Fprintf(w, "  Part A:  %d/%d (screening threshold %d)\n", res.PartAScore, maxA, questions.ADHDPartAThreshold)
	fmt.Fprintf(w, "  Part B:  %d/%d\n", res.PartBScore, maxB)
	fmt.Fprintf(w, "  Total:   %d/%d (%d%%)\n", res.TotalScore, maxTotal, scoring.Percentage(res.TotalScore, maxTotal))
	fmt.Fprintf(w, "  Result:  %s\n", res.OverallResult)
	fmt.Fprintf(w, "  Risk:    %s\n", RiskLabel(res.RiskLevel, colorOutput))

	renderNarrative(w, res.Interpretation, res.Recommendations, questions.ADHD, colorOutput)
}

// RenderAutismResult prints an AQ-10 result.
func RenderAutismResult(w io.Writer, res scoring.AutismResult, colorOutput bool) {
	fmt.Fprintln(w, paint(colorOutput, questions.Autism.Label()+" results", color.Bold))
	fmt.Fprintf(w, "  Score:   %d/%d (%d%%, threshold %d)\n", res.TotalScore, res.MaxScore, scoring.Percentage(res.TotalScore, res.MaxScore), questions.AutismThreshold)
	fmt.Fprintf(w, "  Result:  %s\n", res.OverallResult)
	fmt.Fprintf(w, "  Risk:    %s\n", RiskLabel(res.RiskLevel, colorOutput))

	renderNarrative(w, res.Interpretation, res.Recommendations, questions.Autism, colorOutput)
}

func renderNarrative(w io.Writer, interpretation string, recs []string, i questions.Instrument, colorOutput bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, interpretation)

	if len(recs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, paint(colorOutput, "Recommendations", color.Bold))
		for n, r := range recs {
			fmt.Fprintf(w, "  %d. %s\n", n+1, r)
		}
	}

	if res := questions.Resources(i); len(res) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, paint(colorOutput, "Resources", color.Bold))
		for _, r := range res {
			fmt.Fprintf(w, "  - %s: %s\n    %s\n", r.Title, r.Description, r.URL)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, paint(colorOutput, Disclaimer, color.FgHiBlack))
}

// RenderBreakdown prints per-question details under a heading.
func RenderBreakdown(w io.Writer, heading string, items []scoring.ItemDetail, colorOutput bool) {
	fmt.Fprintln(w, paint(colorOutput, heading, color.Bold))
	for _, d := range items {
		mark := " "
		if d.IsScoring {
			mark = paint(colorOutput, "+", color.FgYellow)
		}
		fmt.Fprintf(w, " %s %2d. %s\n       %s", mark, d.Number, d.Question, d.Response)
		if d.ScoringPattern != "" {
			fmt.Fprintf(w, " (scores on: %s)", d.ScoringPattern)
		}
		fmt.Fprintln(w)
	}
}
