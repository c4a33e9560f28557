package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Details    []string // Individual conditions (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning, in yellow when colorOutput is set
func (w Warning) Display(out io.Writer, colorOutput bool) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	for i, d := range w.Details {
		fmt.Fprintf(&b, "      %d. %s\n", i+1, d)
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	fmt.Fprint(out, paint(colorOutput, b.String(), color.FgYellow))
}

// PersistenceWarning summarizes non-fatal session warnings, such as saves
// that fell back to memory or saved answers that were dropped.
func PersistenceWarning(warnings []error) Warning {
	details := make([]string, len(warnings))
	for i, err := range warnings {
		details[i] = err.Error()
	}
	return Warning{
		Title:      "Some progress could not be stored or restored",
		Details:    details,
		Suggestion: "Check that the data directory is writable; answers given in this session are kept in memory until it ends",
	}
}
