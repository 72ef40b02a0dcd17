package batch

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wizzomafizzo/scour/internal/core/engine"
)

func TestReportAggregates(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	report := newReport("run", 3)
	report.add(engine.Outcome{
		Task:   engine.Task{ID: "c", Input: "c", Index: 2},
		Status: engine.StatusSuccess,
		Stats:  engine.Stats{Total: 4, Kept: 3, Removed: 1},
	})
	report.add(engine.Outcome{
		Task:   engine.Task{ID: "b", Input: "in/b", Index: 1},
		Status: engine.StatusFailed,
		Err:    boom,
		Stats:  engine.Stats{Total: 100},
	})
	report.add(engine.Outcome{
		Task:   engine.Task{ID: "a", Input: "a", Index: 0},
		Status: engine.StatusSuccess,
		Stats:  engine.Stats{Total: 2, Kept: 2, Changed: 1},
	})
	report.finish(time.Second)

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, engine.Stats{Total: 6, Kept: 5, Removed: 1, Changed: 1}, report.Stats,
		"failed files do not count towards line stats")
	assert.Equal(t, time.Second, report.Duration)

	require.Len(t, report.Outcomes, 3)
	for i, outcome := range report.Outcomes {
		assert.Equal(t, i, outcome.Task.Index)
	}

	require.Len(t, report.Failures, 1)
	assert.Equal(t, Failure{ID: "b", Path: "in/b", Reason: "boom", Err: boom}, report.Failures[0])

	assert.False(t, report.OK())
	err := report.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBatchFailed)
	assert.Equal(t, "1 of 3 files failed", err.Error())

	var failed *FailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 1, failed.Failed)
}

func TestReportOK(t *testing.T) {
	t.Parallel()

	report := newReport("run", 0)
	report.finish(0)

	assert.True(t, report.OK())
	assert.NoError(t, report.Err())
	assert.Empty(t, report.Failures)
}

func TestReportMissingErrorReason(t *testing.T) {
	t.Parallel()

	report := newReport("run", 1)
	report.add(engine.Outcome{Task: engine.Task{ID: "x"}, Status: engine.StatusFailed})
	report.finish(0)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, "unknown error", report.Failures[0].Reason)
}
