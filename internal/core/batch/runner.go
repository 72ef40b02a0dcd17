// Package batch runs a FileProcessor over many files with a bounded worker
// pool and aggregates the outcomes into a Report.
//
// Every submitted file is attempted. A failing file, including one whose
// processing panics, is recorded in the report and never stops its siblings.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/wizzomafizzo/scour/internal/core/engine"
	"github.com/wizzomafizzo/scour/internal/core/logging"
	"golang.org/x/sync/errgroup"
)

// ErrPanic wraps a panic recovered while processing a file.
var ErrPanic = errors.New("file processing panicked")

// FileProcessor processes one file to completion and reports the result.
type FileProcessor interface {
	Process(ctx context.Context, task engine.Task) engine.Outcome
}

// Reporter observes a batch. All calls are made from the goroutine running
// Run, so implementations need no locking.
type Reporter interface {
	Start(total int)
	FileDone(outcome engine.Outcome)
	Finish(report *Report)
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of files processed at once. Values below 1
// select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithReporter adds a reporter. May be given several times.
func WithReporter(reporter Reporter) Option {
	return func(r *Runner) {
		if reporter != nil {
			r.reporters = append(r.reporters, reporter)
		}
	}
}

// WithRunID sets the id recorded in the report and logs.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// Runner distributes tasks over a bounded pool of workers.
type Runner struct {
	processor FileProcessor
	runID     string
	reporters []Reporter
	workers   int
}

// NewRunner creates a runner for p.
func NewRunner(p FileProcessor, opts ...Option) *Runner {
	r := &Runner{processor: p}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	return r
}

// RunID returns the id of this runner's batch.
func (r *Runner) RunID() string {
	return r.runID
}

// Workers returns the pool size used for n tasks.
func (r *Runner) Workers(n int) int {
	workers := r.workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// Run processes every task and returns once all of them have an outcome.
func (r *Runner) Run(ctx context.Context, tasks []engine.Task) *Report {
	start := time.Now()
	logger := logging.Get(ctx)
	workers := r.Workers(len(tasks))

	logger.Info().
		Str("batch", r.runID).
		Int("files", len(tasks)).
		Int("workers", workers).
		Msg("batch started")

	for _, reporter := range r.reporters {
		reporter.Start(len(tasks))
	}

	results := make(chan engine.Outcome)
	go func() {
		var group errgroup.Group
		group.SetLimit(workers)
		for _, task := range tasks {
			group.Go(func() error {
				results <- r.process(ctx, task)
				return nil
			})
		}
		_ = group.Wait()
		close(results)
	}()

	report := newReport(r.runID, len(tasks))
	for outcome := range results {
		report.add(outcome)
		logOutcome(ctx, outcome)
		for _, reporter := range r.reporters {
			reporter.FileDone(outcome)
		}
	}
	report.finish(time.Since(start))

	logger.Info().
		Str("batch", r.runID).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Int("lines_total", report.Stats.Total).
		Int("lines_removed", report.Stats.Removed).
		Dur("duration", report.Duration).
		Msg("batch finished")

	for _, reporter := range r.reporters {
		reporter.Finish(report)
	}

	return report
}

// process runs one task, turning a panic into a failed outcome.
func (r *Runner) process(ctx context.Context, task engine.Task) (outcome engine.Outcome) {
	defer func() {
		if recovered := recover(); recovered != nil {
			outcome = engine.Outcome{
				Task:   task,
				Status: engine.StatusFailed,
				Err:    fmt.Errorf("%w: %v", ErrPanic, recovered),
			}
		}
	}()
	return r.processor.Process(ctx, task)
}

func logOutcome(ctx context.Context, outcome engine.Outcome) {
	logger := logging.Get(ctx)
	if outcome.Failed() {
		logger.Error().
			Err(outcome.Err).
			Str("file", outcome.Task.ID).
			Str("path", outcome.Task.Input).
			Msg("file failed")
		return
	}

	logger.Info().
		Str("file", outcome.Task.ID).
		Str("path", outcome.Task.Destination()).
		Bool("in_place", outcome.Task.InPlace()).
		Int("lines_total", outcome.Stats.Total).
		Int("lines_kept", outcome.Stats.Kept).
		Int("lines_removed", outcome.Stats.Removed).
		Int("lines_changed", outcome.Stats.Changed).
		Msg("file cleaned")
}
