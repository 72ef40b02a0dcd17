package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/wizzomafizzo/scour/internal/core/logging"
	"github.com/wizzomafizzo/scour/internal/core/rules"
)

var (
	// ErrInvalidEncoding is returned for content that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("content is not valid UTF-8 text")
	// ErrIsDirectory is returned when a task points at a directory.
	ErrIsDirectory = errors.New("path is a directory")
)

// Task identifies one file of a batch.
type Task struct {
	// ID is "<corpus>.<language>", or the path when no language applies.
	ID       string
	Corpus   string
	Language string
	Input    string
	// Output is where the result goes; empty means rewrite Input in place.
	Output string
	// Index is the submission order within the batch.
	Index int
}

// Destination returns the path the result is written to.
func (t Task) Destination() string {
	if t.Output == "" {
		return t.Input
	}
	return t.Output
}

// InPlace reports whether the task rewrites its input file.
func (t Task) InPlace() bool {
	return t.Destination() == t.Input
}

// Status is the final state of a processed task.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Outcome is the result of processing one Task. Text holds the transformed
// content in dry-run mode.
type Outcome struct {
	Err      error
	Task     Task
	Status   Status
	Text     string
	Stats    Stats
	Bytes    int
	Duration time.Duration
}

// Failed reports whether the task failed.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithDryRun skips writing; transformed text is returned in Outcome.Text.
func WithDryRun(dryRun bool) ProcessorOption {
	return func(p *Processor) {
		p.dryRun = dryRun
	}
}

// Processor reads a file, transforms it with a shared RuleSet and writes the
// result. It holds no per-file state and is safe for concurrent use.
type Processor struct {
	fs     afero.Fs
	rules  *rules.RuleSet
	dryRun bool
}

// NewProcessor creates a file processor bound to rs.
func NewProcessor(fs afero.Fs, rs *rules.RuleSet, opts ...ProcessorOption) *Processor {
	p := &Processor{fs: fs, rules: rs}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process transforms a single file. Failures are reported in the Outcome,
// never returned or panicked.
func (p *Processor) Process(ctx context.Context, task Task) Outcome {
	start := time.Now()
	logger := logging.Get(ctx).With().Str("file", task.ID).Logger()
	logger.Debug().Str("input", task.Input).Str("output", task.Destination()).Msg("processing file")

	outcome := Outcome{Task: task, Status: StatusSuccess}

	text, stats, err := p.process(task)
	outcome.Duration = time.Since(start)
	outcome.Stats = stats
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err
		logger.Debug().Err(err).Msg("file processing failed")
		return outcome
	}

	outcome.Bytes = len(text)
	if p.dryRun {
		outcome.Text = text
	}

	logger.Debug().
		Int("lines_total", stats.Total).
		Int("lines_removed", stats.Removed).
		Int("lines_changed", stats.Changed).
		Dur("duration", outcome.Duration).
		Msg("file processed")

	return outcome
}

func (p *Processor) process(task Task) (string, Stats, error) {
	info, err := p.fs.Stat(task.Input)
	if err != nil {
		return "", Stats{}, fmt.Errorf("failed to read %s: %w", task.Input, err)
	}
	if info.IsDir() {
		return "", Stats{}, fmt.Errorf("failed to read %s: %w", task.Input, ErrIsDirectory)
	}

	data, err := afero.ReadFile(p.fs, task.Input)
	if err != nil {
		return "", Stats{}, fmt.Errorf("failed to read %s: %w", task.Input, err)
	}
	if !utf8.Valid(data) {
		return "", Stats{}, fmt.Errorf("failed to decode %s: %w", task.Input, ErrInvalidEncoding)
	}

	text, stats := Transform(string(data), p.rules)

	if p.dryRun {
		return text, stats, nil
	}

	if err := p.write(task.Destination(), []byte(text), info.Mode().Perm()); err != nil {
		return "", stats, err
	}
	return text, stats, nil
}

// write replaces path atomically: the data goes to a temporary file in the
// same directory which is then renamed over the destination.
func (p *Processor) write(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := p.fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(p.fs, dir, "."+filepath.Base(path)+".scour-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = p.fs.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = p.fs.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := p.fs.Chmod(tmpName, perm); err != nil {
		_ = p.fs.Remove(tmpName)
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := p.fs.Rename(tmpName, path); err != nil {
		_ = p.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
