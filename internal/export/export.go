// Package export writes scored results as downloadable documents.
//
// A Document mirrors the result file the screening site offered for
// download. It can be written as indented JSON, as Markdown or as a
// standalone HTML page rendered from that Markdown.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/harrison/neuroscreen/internal/questions"
	"github.com/harrison/neuroscreen/internal/scoring"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ErrUnknownFormat is returned for formats other than json, markdown and html.
var ErrUnknownFormat = errors.New("export: unknown format")

// Format is an output document type.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts json, markdown (or md) and html, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w %q (expected json, markdown or html)", ErrUnknownFormat, s)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// ADHDScores are the ASRS-v1.1 part scores as "score/max" strings.
type ADHDScores struct {
	PartA string `json:"partA"`
	PartB string `json:"partB"`
	Total string `json:"total"`
}

// Document is an exported result.
type Document struct {
	Instrument      questions.Instrument `json:"-"`
	TestDate        string               `json:"testDate"`
	ScreenerType    string               `json:"screenerType"`
	Scores          *ADHDScores          `json:"scores,omitempty"`
	Score           string               `json:"score,omitempty"`
	Threshold       int                  `json:"threshold,omitempty"`
	RiskLevel       scoring.RiskLevel    `json:"riskLevel"`
	Interpretation  string               `json:"interpretation"`
	Recommendations []string             `json:"recommendations"`
	Items           []scoring.ItemDetail `json:"items,omitempty"`
}

// NewADHDDocument builds the export of an ASRS-v1.1 result.
func NewADHDDocument(res scoring.ADHDResult, testDate time.Time) Document {
	maxA, maxB, maxTotal := scoring.ADHDMax()
	return Document{
		Instrument:   questions.ADHD,
		TestDate:     testDate.Format(time.DateOnly),
		ScreenerType: questions.ADHD.Label(),
		Scores: &ADHDScores{
			PartA: fmt.Sprintf("%d/%d", res.PartAScore, maxA),
			PartB: fmt.Sprintf("%d/%d", res.PartBScore, maxB),
			Total: fmt.Sprintf("%d/%d", res.TotalScore, maxTotal),
		},
		RiskLevel:       res.RiskLevel,
		Interpretation:  res.Interpretation,
		Recommendations: append([]string(nil), res.Recommendations...),
	}
}

// NewAutismDocument builds the export of an AQ-10 result.
func NewAutismDocument(res scoring.AutismResult, testDate time.Time) Document {
	return Document{
		Instrument:      questions.Autism,
		TestDate:        testDate.Format(time.DateOnly),
		ScreenerType:    questions.Autism.Label(),
		Score:           fmt.Sprintf("%d/%d", res.TotalScore, res.MaxScore),
		Threshold:       questions.AutismThreshold,
		RiskLevel:       res.RiskLevel,
		Interpretation:  res.Interpretation,
		Recommendations: append([]string(nil), res.Recommendations...),
	}
}

// WithItems attaches the per-question breakdown.
func (d Document) WithItems(items []scoring.ItemDetail) Document {
	d.Items = append([]scoring.ItemDetail(nil), items...)
	return d
}

// FileName returns the download name, e.g. adhd-screening-results-2026-10-15.json.
func FileName(i questions.Instrument, date time.Time, f Format) string {
	return fmt.Sprintf("%s-screening-results-%s.%s", i, date.Format(time.DateOnly), f.Extension())
}

// Write renders doc in format f.
func Write(w io.Writer, doc Document, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, doc)
	case FormatMarkdown:
		return WriteMarkdown(w, doc)
	case FormatHTML:
		return WriteHTML(w, doc)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}

// WriteJSON writes doc as two-space indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// WriteMarkdown writes doc as a Markdown report.
func WriteMarkdown(w io.Writer, doc Document) error {
	if _, err := io.WriteString(w, markdown(doc)); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

func markdown(doc Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s screening results\n\n", doc.ScreenerType)
	fmt.Fprintf(&b, "Test date: %s\n\n", doc.TestDate)

	b.WriteString("| Measure | Score |\n|---|---|\n")
	if doc.Scores != nil {
		fmt.Fprintf(&b, "| Part A | %s |\n", doc.Scores.PartA)
		fmt.Fprintf(&b, "| Part B | %s |\n", doc.Scores.PartB)
		fmt.Fprintf(&b, "| Total | %s |\n", doc.Scores.Total)
	} else {
		fmt.Fprintf(&b, "| Total | %s |\n", doc.Score)
		fmt.Fprintf(&b, "| Threshold | %d |\n", doc.Threshold)
	}
	fmt.Fprintf(&b, "| Risk level | %s |\n\n", doc.RiskLevel)

	b.WriteString("## Interpretation\n\n")
	b.WriteString(doc.Interpretation)
	b.WriteString("\n\n")

	if len(doc.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, r := range doc.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		b.WriteString("\n")
	}

	if len(doc.Items) > 0 {
		b.WriteString("## Responses\n\n| # | Question | Response | Scoring |\n|---|---|---|---|\n")
		for _, it := range doc.Items {
			scored := ""
			if it.IsScoring {
				scored = "yes"
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", it.Number, escapeCell(it.Question), it.Response, scored)
		}
		b.WriteString("\n")
	}

	if res := questions.Resources(doc.Instrument); len(res) > 0 {
		b.WriteString("## Resources\n\n")
		for _, r := range res {
			fmt.Fprintf(&b, "- [%s](%s): %s\n", r.Title, r.URL, r.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("_This is a screening tool, not a diagnostic instrument. Discuss results with healthcare professionals._\n")
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// WriteHTML writes doc as a standalone HTML page rendered from its Markdown.
func WriteHTML(w io.Writer, doc Document) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(markdown(doc)), &body); err != nil {
		return fmt.Errorf("render results: %w", err)
	}

	title := html.EscapeString(doc.ScreenerType + " screening results")
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n", title, body.String())
	if err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
