package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/wizzomafizzo/scour/internal/core/engine"
	"github.com/wizzomafizzo/scour/internal/prompt"
)

const tryPrompt = "line>"

// Try shows how each line would be cleaned.
func (a *App) Try(ctx context.Context, lines []string) (string, error) {
	_, rs, err := a.LoadRules(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(formatTrace(engine.TraceLine(line, rs)))
	}
	return b.String(), nil
}

// TryInteractive reads lines from the prompt until the user cancels and
// explains each one.
func (a *App) TryInteractive(ctx context.Context) error {
	_, rs, err := a.LoadRules(ctx)
	if err != nil {
		return err
	}

	p := a.newPrompter()
	defer func() { _ = p.Close() }()

	_, _ = fmt.Fprintf(a.stdout, "Testing %s. Enter a line, Ctrl+D to quit.\n", a.patternsPath)
	return prompt.Loop(p, tryPrompt, func(line string) error {
		_, _ = fmt.Fprint(a.stdout, formatTrace(engine.TraceLine(line, rs)))
		return nil
	})
}

func formatTrace(trace engine.Trace) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q\n", trace.Input)

	if trace.Result.Dropped {
		fmt.Fprintf(&b, "  %s by remove rule %d: %s\n",
			color.RedString("removed"), trace.RemovedBy, trace.RemovedPattern)
		return b.String()
	}

	for _, step := range trace.Steps {
		fmt.Fprintf(&b, "  replace rule %d: %s -> %q\n", step.Index, step.Pattern, step.Replacement)
		fmt.Fprintf(&b, "    %q\n", step.After)
	}
	if len(trace.Steps) == 0 {
		b.WriteString("  unchanged\n")
	}
	fmt.Fprintf(&b, "  %s %q\n", color.GreenString("=>"), trace.Result.Text)
	return b.String()
}
