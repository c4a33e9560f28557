package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ProgressIndicator reports a multi-step operation, one line per step
type ProgressIndicator struct {
	writer      io.Writer
	title       string
	total       int
	current     int
	colorOutput bool
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, title string, total int, colorOutput bool) *ProgressIndicator {
	return &ProgressIndicator{
		writer:      w,
		title:       title,
		total:       total,
		colorOutput: colorOutput,
	}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "%s:\n", p.title)
}

// Step displays progress for the current item: [N/Total] item (cyan)
func (p *ProgressIndicator) Step(item string) {
	p.current++
	fmt.Fprintln(p.writer, paint(p.colorOutput, fmt.Sprintf("  [%d/%d] %s", p.current, p.total, item), color.FgCyan))
}

// Complete displays the success line with a green checkmark
func (p *ProgressIndicator) Complete(summary string) {
	fmt.Fprintf(p.writer, "%s %s\n", paint(p.colorOutput, "✓", color.FgGreen), summary)
}
