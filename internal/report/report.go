// Package report renders the end-of-run summary for the terminal.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/starford/jera/internal/models"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)
)

// Print writes a one-screen summary of the run: counts first, then
// warnings and per-record failures. It is emitted after every run that
// reached the planning phase, including partially failed ones.
func Print(w io.Writer, res models.RunResult) {
	if res.Attempted == 0 {
		okColor.Fprintln(w, "nothing to sync, store is up to date")
	} else {
		fmt.Fprintf(w, "attempted %d: ", res.Attempted)
		okColor.Fprintf(w, "%d succeeded", res.Succeeded)
		if res.Failed > 0 {
			fmt.Fprint(w, ", ")
			failColor.Fprintf(w, "%d failed", res.Failed)
		}
		fmt.Fprintln(w)
	}

	for _, f := range res.Failures {
		failColor.Fprintf(w, "  rejected %s: %s\n", f.Date.Format(models.DateLayout), f.Reason)
	}
	if len(res.Warnings) > 0 {
		warnColor.Fprintf(w, "%d note(s) skipped:\n", len(res.Warnings))
		for _, warn := range res.Warnings {
			warnColor.Fprintf(w, "  %s: %s\n", warn.Source, warn.Reason)
		}
	}
}
