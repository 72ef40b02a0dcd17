package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/wizzomafizzo/scour/internal/core/batch"
	"github.com/wizzomafizzo/scour/internal/core/rules"
)

func writeSummary(w io.Writer, report *batch.Report, dryRun bool) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	for _, failure := range report.Failures {
		_, _ = fmt.Fprintf(w, "%s %s: %s\n", red("FAILED"), failure.Path, failure.Reason)
	}

	failed := fmt.Sprintf("%d failed", report.Failed)
	if report.Failed > 0 {
		failed = red(failed)
	}
	_, _ = fmt.Fprintf(w, "Processed %d files: %s, %s in %s\n",
		report.Total,
		green(fmt.Sprintf("%d succeeded", report.Succeeded)),
		failed,
		report.Duration.Round(time.Millisecond),
	)

	stats := report.Stats
	_, _ = fmt.Fprintf(w, "Lines: %d read, %d removed, %d kept (%.1f%%), %d changed\n",
		stats.Total, stats.Removed, stats.Kept, stats.KeptPercent(), stats.Changed)

	if dryRun {
		_, _ = fmt.Fprintln(w, color.YellowString("Dry run: no files were written"))
	}
}

func writeDryRun(w io.Writer, report *batch.Report) {
	header := color.New(color.Bold).SprintFunc()
	for _, outcome := range report.Outcomes {
		if outcome.Failed() {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\n", header("==> "+outcome.Task.Destination()+" <=="))
		_, _ = fmt.Fprint(w, outcome.Text)
		if outcome.Text != "" && !strings.HasSuffix(outcome.Text, "\n") {
			_, _ = fmt.Fprintln(w)
		}
	}
}

func formatRules(rs *rules.RuleSet) string {
	var b strings.Builder

	b.WriteString("Remove rules:\n")
	if len(rs.Removals()) == 0 {
		b.WriteString("  (none)\n")
	}
	for removal := range rs.RemovalRules() {
		fmt.Fprintf(&b, "  %d. %s\n", removal.Index(), removal.Pattern())
	}

	b.WriteString("Replace rules:\n")
	if len(rs.Replacements()) == 0 {
		b.WriteString("  (none)\n")
	}
	for replacement := range rs.ReplacementRules() {
		fmt.Fprintf(&b, "  %d. %s -> %q\n", replacement.Index(), replacement.Pattern(), replacement.Replacement())
	}

	return b.String()
}
