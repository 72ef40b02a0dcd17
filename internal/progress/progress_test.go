package progress

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wizzomafizzo/scour/internal/core/batch"
	"github.com/wizzomafizzo/scour/internal/core/engine"
)

func TestEnabled(t *testing.T) {
	t.Parallel()

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.False(t, Enabled(f, false), "regular files are not terminals")
	assert.False(t, Enabled(f, true))
	assert.False(t, Enabled(nil, false))
}

func TestReporterDrawsBar(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.Start(3)
	r.FileDone(engine.Outcome{Status: engine.StatusSuccess})
	r.FileDone(engine.Outcome{Status: engine.StatusFailed, Err: errors.New("x")})
	r.FileDone(engine.Outcome{Status: engine.StatusSuccess})
	r.Finish(&batch.Report{})

	assert.Equal(t, 1, r.Failed())
	assert.Contains(t, buf.String(), title)
}

func TestReporterEmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.Start(0)
	r.FileDone(engine.Outcome{Status: engine.StatusFailed})
	r.Finish(&batch.Report{})

	assert.Empty(t, buf.String())
	assert.Zero(t, r.Failed())
}
