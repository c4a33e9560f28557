package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/harrison/neuroscreen/internal/display"
	"github.com/spf13/cobra"
)

// NewImportCommand creates the 'neuroscreen import' command
func NewImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import progress and results saved by the browser version",
		Long: `Import a JSON dump of the browser screener's local storage. The file is an
object mapping storage keys to their values, for example:

  {
    "adhd-questionnaire": "{\"responses\":[...],\"currentQuestion\":3,\"timestamp\":1700000000000}",
    "autism-questionnaire_results": {"responses": [...], "completedAt": 1700000000000}
  }

Values may be JSON strings (as copied from the browser) or plain objects.
Unrelated keys are ignored. Imported documents are converted the next time
the questionnaire is opened.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			entries, err := parseLegacyDump(data)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			keys, err := a.store.ImportLegacy(cmd.Context(), entries)
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Fprintln(a.out, "Nothing to import: no screener data found in file.")
				return nil
			}

			progress := display.NewProgressIndicator(a.out, "Importing", len(keys), a.color)
			progress.Start()
			for _, k := range keys {
				progress.Step(k)
			}
			skipped := len(entries) - len(keys)
			progress.Complete(fmt.Sprintf("Imported %d entries (%d skipped)", len(keys), skipped))
			return nil
		}),
	}
}

// parseLegacyDump decodes a key/value dump. String values are taken as the
// stored JSON text; any other value is kept as raw JSON.
func parseLegacyDump(data []byte) (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	entries := make(map[string]string, len(raw))
	for k, v := range raw {
		v = bytes.TrimSpace(v)
		if len(v) > 0 && v[0] == '"' {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return nil, fmt.Errorf("key %s: %w", k, err)
			}
			entries[k] = s
			continue
		}
		entries[k] = string(v)
	}
	return entries, nil
}
