package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// confirmAction prompts on out and reads a yes/no answer from in.
// Anything other than y or yes, including EOF, declines.
func confirmAction(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		fmt.Fprintln(out)
		return false
	}

	response := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return response == "y" || response == "yes"
}
