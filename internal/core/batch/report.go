package batch

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/wizzomafizzo/scour/internal/core/engine"
)

// ErrBatchFailed is matched by the error of any report with failures.
var ErrBatchFailed = errors.New("batch had failures")

// FailedError summarizes a batch in which at least one file failed.
type FailedError struct {
	Failed int
	Total  int
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("%d of %d files failed", e.Failed, e.Total)
}

// Is makes errors.Is(err, ErrBatchFailed) hold.
func (*FailedError) Is(target error) bool {
	return target == ErrBatchFailed
}

// Failure describes one failed file for reporting.
type Failure struct {
	Err    error
	ID     string
	Path   string
	Reason string
}

// Report aggregates every outcome of a batch run. Outcomes and Failures are
// in submission order.
type Report struct {
	RunID     string
	Outcomes  []engine.Outcome
	Failures  []Failure
	Stats     engine.Stats
	Total     int
	Succeeded int
	Failed    int
	Duration  time.Duration
}

func newReport(runID string, total int) *Report {
	return &Report{
		RunID:    runID,
		Total:    total,
		Outcomes: make([]engine.Outcome, 0, total),
	}
}

func (r *Report) add(outcome engine.Outcome) {
	r.Outcomes = append(r.Outcomes, outcome)
	if outcome.Failed() {
		r.Failed++
		return
	}
	r.Succeeded++
	r.Stats = r.Stats.Add(outcome.Stats)
}

func (r *Report) finish(duration time.Duration) {
	r.Duration = duration

	sort.SliceStable(r.Outcomes, func(i, j int) bool {
		return r.Outcomes[i].Task.Index < r.Outcomes[j].Task.Index
	})

	r.Failures = r.Failures[:0]
	for _, outcome := range r.Outcomes {
		if !outcome.Failed() {
			continue
		}
		r.Failures = append(r.Failures, Failure{
			ID:     outcome.Task.ID,
			Path:   outcome.Task.Input,
			Reason: reason(outcome.Err),
			Err:    outcome.Err,
		})
	}
}

func reason(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// OK reports whether every file succeeded.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Err returns a *FailedError when any file failed, nil otherwise.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return &FailedError{Failed: r.Failed, Total: r.Total}
}
