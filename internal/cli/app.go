// Package cli implements the scour commands on top of the config, rules,
// engine and batch packages. It owns all user-facing text.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/wizzomafizzo/scour/internal/config"
	"github.com/wizzomafizzo/scour/internal/core/batch"
	"github.com/wizzomafizzo/scour/internal/core/engine"
	"github.com/wizzomafizzo/scour/internal/core/logging"
	"github.com/wizzomafizzo/scour/internal/core/rules"
	"github.com/wizzomafizzo/scour/internal/metrics"
	"github.com/wizzomafizzo/scour/internal/progress"
	"github.com/wizzomafizzo/scour/internal/prompt"
)

var (
	// ErrPatternsExist is returned by Init when the rule file is present.
	ErrPatternsExist = errors.New("rule file already exists")
	// ErrNoFiles is returned by Run when there is nothing to process.
	ErrNoFiles = errors.New("no input files given")
)

// ConfigError reports a rule file that could not be loaded or compiled.
// Nothing has been processed when it is returned.
type ConfigError struct {
	Err  error
	Path string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid rule file %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Option configures an App.
type Option func(*App)

// WithOutput redirects normal output and diagnostics.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) {
		a.stdout = stdout
		a.stderr = stderr
	}
}

// WithPrompter replaces the terminal prompt used by interactive try.
func WithPrompter(newPrompter func() prompt.Prompter) Option {
	return func(a *App) {
		a.newPrompter = newPrompter
	}
}

type App struct {
	fs           afero.Fs
	stdout       io.Writer
	stderr       io.Writer
	newPrompter  func() prompt.Prompter
	patternsPath string
}

func NewApp(fs afero.Fs, patternsPath string, opts ...Option) *App {
	a := &App{
		fs:           fs,
		patternsPath: patternsPath,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		newPrompter: func() prompt.Prompter {
			return prompt.NewLinerPrompter()
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// PatternsPath returns the rule file this app reads.
func (a *App) PatternsPath() string {
	return a.patternsPath
}

// LoadRules loads and compiles the rule file. Any failure is a *ConfigError.
func (a *App) LoadRules(ctx context.Context) (*config.Config, *rules.RuleSet, error) {
	logger := logging.Get(ctx)
	logger.Debug().Str("patterns", a.patternsPath).Msg("loading rule file")

	cfg, err := config.Load(a.fs, a.patternsPath)
	if err != nil {
		return nil, nil, &ConfigError{Path: a.patternsPath, Err: err}
	}

	rs, err := rules.Build(cfg)
	if err != nil {
		return nil, nil, &ConfigError{Path: a.patternsPath, Err: err}
	}

	if rs.Empty() {
		logger.Warn().Str("patterns", a.patternsPath).Msg("rule file has no rules, files will be copied unchanged")
	}
	logger.Debug().
		Int("remove", len(cfg.Remove)).
		Int("replace", len(cfg.Replace)).
		Msg("rules compiled")

	return cfg, rs, nil
}

// ValidateConfig checks that the rule file loads and every pattern compiles.
func (a *App) ValidateConfig(ctx context.Context) (string, error) {
	cfg, _, err := a.LoadRules(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Rule file %s is valid: %d remove rules, %d replace rules\n",
		a.patternsPath, len(cfg.Remove), len(cfg.Replace)), nil
}

// ListRules renders every rule with its 1-based position.
func (a *App) ListRules(ctx context.Context) (string, error) {
	_, rs, err := a.LoadRules(ctx)
	if err != nil {
		return "", err
	}
	return formatRules(rs), nil
}

// Init writes the default rule file unless one exists and force is false.
func (a *App) Init(ctx context.Context, force bool) (string, error) {
	exists, err := afero.Exists(a.fs, a.patternsPath)
	if err != nil {
		return "", fmt.Errorf("failed to check %s: %w", a.patternsPath, err)
	}
	if exists && !force {
		return "", fmt.Errorf("%w: %s (use --force to overwrite)", ErrPatternsExist, a.patternsPath)
	}

	if err := config.DefaultConfig().Save(a.fs, a.patternsPath, config.WithHeader(config.DefaultHeader)); err != nil {
		return "", fmt.Errorf("failed to write default rules to %s: %w", a.patternsPath, err)
	}

	logging.Get(ctx).Info().Str("patterns", a.patternsPath).Bool("force", force).Msg("wrote default rule file")
	return fmt.Sprintf("Wrote default rules to %s\n", a.patternsPath), nil
}

// RunOptions selects the files of a batch and how they are processed.
type RunOptions struct {
	RunID       string
	InputDir    string
	OutputDir   string
	MetricsFile string
	Corpora     []string
	Languages   []string
	Workers     int
	DryRun      bool
	Progress    bool
}

// Run cleans every selected file. The report is returned whenever the batch
// ran; the error is a *ConfigError when it could not start and wraps
// batch.ErrBatchFailed when any file failed.
func (a *App) Run(ctx context.Context, opts RunOptions) (*batch.Report, error) {
	_, rs, err := a.LoadRules(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := batch.ExpandTasks(opts.Corpora, opts.Languages, opts.InputDir, opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("cannot run batch: %w", err)
	}
	if len(tasks) == 0 {
		return nil, ErrNoFiles
	}

	runnerOpts := []batch.Option{batch.WithWorkers(opts.Workers)}
	if opts.RunID != "" {
		runnerOpts = append(runnerOpts, batch.WithRunID(opts.RunID))
	}
	if opts.Progress {
		runnerOpts = append(runnerOpts, batch.WithReporter(progress.New(a.stderr)))
	}
	var collector *metrics.Collector
	if opts.MetricsFile != "" {
		collector = metrics.NewCollector()
		runnerOpts = append(runnerOpts, batch.WithReporter(collector))
	}

	processor := engine.NewProcessor(a.fs, rs, engine.WithDryRun(opts.DryRun))
	report := batch.NewRunner(processor, runnerOpts...).Run(ctx, tasks)

	if collector != nil {
		if err := collector.WriteTextfile(opts.MetricsFile); err != nil {
			logging.Get(ctx).Warn().Err(err).Msg("metrics export failed")
			_, _ = fmt.Fprintf(a.stderr, "warning: %v\n", err)
		}
	}

	if opts.DryRun {
		writeDryRun(a.stdout, report)
	}
	writeSummary(a.stderr, report, opts.DryRun)

	return report, report.Err()
}
