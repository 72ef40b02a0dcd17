package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("cancelled by user")

// Prompter interface wraps basic prompting functionality for testability
type Prompter interface {
	Prompt(string) (string, error)
	Close() error
}

// LinerPrompter wraps liner.State to implement Prompter interface
type LinerPrompter struct {
	*liner.State
}

// NewLinerPrompter creates a new liner-based prompter
func NewLinerPrompter() *LinerPrompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &LinerPrompter{State: line}
}

// Prompt reads one line and records it in the session history.
func (p *LinerPrompter) Prompt(prompt string) (string, error) {
	input, err := p.State.Prompt(prompt)
	if err != nil {
		return "", err //nolint:wrapcheck // classified by callers
	}
	if strings.TrimSpace(input) != "" {
		p.AppendHistory(input)
	}
	return input, nil
}

// TextInputWithPrompter reads one line with a colored prompt. Ctrl+C and
// end of input both yield ErrCancelled.
func TextInputWithPrompter(prompter Prompter, prompt string) (string, error) {
	coloredPrompt := color.CyanString(prompt + " ")
	result, err := prompter.Prompt(coloredPrompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("text input failed: %w", err)
	}
	return result, nil
}

// Loop prompts repeatedly and passes every line to handle until the user
// cancels, which ends the loop without error. An error from handle stops the
// loop and is returned.
func Loop(prompter Prompter, prompt string, handle func(line string) error) error {
	for {
		line, err := TextInputWithPrompter(prompter, prompt)
		if errors.Is(err, ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := handle(line); err != nil {
			return err
		}
	}
}
