package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/harrison/neuroscreen/internal/analytics"
	"github.com/harrison/neuroscreen/internal/export"
	"github.com/harrison/neuroscreen/internal/questions"
	"github.com/harrison/neuroscreen/internal/scoring"
	"github.com/harrison/neuroscreen/internal/store"
	"github.com/spf13/cobra"
)

// NewExportCommand creates the 'neuroscreen export' command
func NewExportCommand() *cobra.Command {
	var format, out string
	var details bool

	cmd := &cobra.Command{
		Use:   "export <adhd|autism>",
		Short: "Save a result as JSON, Markdown or HTML",
		Long: `Write the scored result of a submitted questionnaire to a file.

By default the file is named after the instrument and completion date,
e.g. adhd-screening-results-2026-10-15.json, in the current directory.
Use --out - to write to standard output.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: instrumentNames(),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			inst, err := instrumentArg(args)
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			rec, err := a.store.LoadSubmission(cmd.Context(), inst)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no %s results to export; complete the screening first", inst)
			}
			if err != nil {
				return fmt.Errorf("load results: %w", err)
			}

			completed := rec.CompletedAt.Local()
			if rec.CompletedAt.IsZero() {
				completed = time.Now()
			}
			doc := buildDocument(inst, rec.Responses, completed, details)

			if out == "-" {
				return export.Write(a.out, doc, f)
			}
			if out == "" {
				out = export.FileName(inst, completed, f)
			}
			if err := writeExport(out, doc, f); err != nil {
				return err
			}

			a.track(cmd.Context(), analytics.ExportCounter(inst))
			fmt.Fprintf(a.out, "Saved %s results to %s\n", inst.Label(), out)
			return nil
		}),
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, markdown or html")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: <instrument>-screening-results-<date>.<ext>, - for stdout)")
	cmd.Flags().BoolVar(&details, "details", false, "Include every question and answer")
	return cmd
}

func buildDocument(inst questions.Instrument, responses []scoring.Response, completed time.Time, details bool) export.Document {
	var doc export.Document
	var items []scoring.ItemDetail

	if inst == questions.ADHD {
		doc = export.NewADHDDocument(scoring.ScoreADHD(responses), completed)
		b := scoring.BreakdownADHD(responses)
		items = append(b.PartA, b.PartB...)
	} else {
		doc = export.NewAutismDocument(scoring.ScoreAutism(responses), completed)
		items = scoring.BreakdownAutism(responses)
	}

	if details {
		doc = doc.WithItems(items)
	}
	return doc
}

func writeExport(path string, doc export.Document, f export.Format) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.Write(file, doc, f); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
