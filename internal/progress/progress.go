// Package progress draws a terminal progress bar for a running batch.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/wizzomafizzo/scour/internal/core/batch"
	"github.com/wizzomafizzo/scour/internal/core/engine"
)

const title = "Cleaning"

// Enabled reports whether a bar should be drawn on f.
func Enabled(f *os.File, disabled bool) bool {
	if disabled || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Reporter is a batch.Reporter that advances a pterm progress bar.
type Reporter struct {
	writer io.Writer
	bar    *pterm.ProgressbarPrinter
	failed int
}

var _ batch.Reporter = (*Reporter)(nil)

// New creates a reporter drawing on w.
func New(w io.Writer) *Reporter {
	return &Reporter{writer: w}
}

func (r *Reporter) Start(total int) {
	if total == 0 {
		return
	}

	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle(title).
		WithWriter(r.writer).
		WithShowElapsedTime(false).
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		return
	}
	r.bar = bar
}

func (r *Reporter) FileDone(outcome engine.Outcome) {
	if r.bar == nil {
		return
	}
	if outcome.Failed() {
		r.failed++
		r.bar.UpdateTitle(fmt.Sprintf("%s (%d failed)", title, r.failed))
	}
	r.bar.Increment()
}

func (r *Reporter) Finish(*batch.Report) {
	if r.bar == nil {
		return
	}
	_, _ = r.bar.Stop()
	r.bar = nil
}

// Failed returns the number of failed files seen so far.
func (r *Reporter) Failed() int {
	return r.failed
}
