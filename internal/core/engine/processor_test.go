package engine

import (
	"errors"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wizzomafizzo/scour/internal/config"
	testutil "github.com/wizzomafizzo/scour/internal/testing"
)

func testRules() config.Config {
	return config.Config{
		Remove:  []string{"^-"},
		Replace: []config.Replace{{Regex: `\s{2,}`, Replacement: " "}},
	}
}

func newTestProcessor(fs afero.Fs, opts ...ProcessorOption) *Processor {
	cfg := testRules()
	return NewProcessor(fs, ruleSet(cfg.Remove, cfg.Replace...), opts...)
}

func TestProcessInPlace(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.NewTestContext(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "raw/corpus.en", []byte("- header\nsome   text\nplain\n"), 0o644))

	task := Task{ID: "corpus.en", Corpus: "corpus", Language: "en", Input: "raw/corpus.en"}
	outcome := newTestProcessor(fs).Process(ctx, task)

	require.NoError(t, outcome.Err)
	assert.Equal(t, StatusSuccess, outcome.Status)
	assert.False(t, outcome.Failed())
	assert.Equal(t, Stats{Total: 3, Removed: 1, Kept: 2, Changed: 1}, outcome.Stats)
	assert.Empty(t, outcome.Text, "text is only kept in dry-run mode")

	data, err := afero.ReadFile(fs, "raw/corpus.en")
	require.NoError(t, err)
	assert.Equal(t, "some text\nplain\n", string(data))
	assert.Equal(t, len(data), outcome.Bytes)
}

func TestProcessToOutputDirectory(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.NewTestContext(t)
	fs := afero.NewMemMapFs()
	original := []byte("- header\nkeep  me\n")
	require.NoError(t, afero.WriteFile(fs, "raw/corpus.de", original, 0o640))

	task := Task{ID: "corpus.de", Input: "raw/corpus.de", Output: "prepro/nested/corpus.de"}
	assert.False(t, task.InPlace())

	outcome := newTestProcessor(fs).Process(ctx, task)
	require.NoError(t, outcome.Err)

	out, err := afero.ReadFile(fs, "prepro/nested/corpus.de")
	require.NoError(t, err)
	assert.Equal(t, "keep me\n", string(out))

	in, err := afero.ReadFile(fs, "raw/corpus.de")
	require.NoError(t, err)
	assert.Equal(t, original, in, "input must be untouched when writing elsewhere")

	info, err := fs.Stat("prepro/nested/corpus.de")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestProcessLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.NewTestContext(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/a.txt", []byte("x\n"), 0o644))

	outcome := newTestProcessor(fs).Process(ctx, Task{ID: "a.txt", Input: "data/a.txt"})
	require.NoError(t, outcome.Err)

	entries, err := afero.ReadDir(fs, "data")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Name())
}

func TestProcessDryRun(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.NewTestContext(t)
	fs := afero.NewMemMapFs()
	original := []byte("- header\nsome   text\n")
	require.NoError(t, afero.WriteFile(fs, "corpus.fr", original, 0o644))

	outcome := newTestProcessor(fs, WithDryRun(true)).Process(ctx, Task{ID: "corpus.fr", Input: "corpus.fr"})

	require.NoError(t, outcome.Err)
	assert.Equal(t, "some text\n", outcome.Text)

	data, err := afero.ReadFile(fs, "corpus.fr")
	require.NoError(t, err)
	assert.Equal(t, original, data)
}

func TestProcessEmptyResultIsSuccess(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.NewTestContext(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "corpus.it", []byte("- one\n- two\n"), 0o644))

	outcome := newTestProcessor(fs).Process(ctx, Task{ID: "corpus.it", Input: "corpus.it"})

	assert.Equal(t, StatusSuccess, outcome.Status)
	data, err := afero.ReadFile(fs, "corpus.it")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestProcessFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		setup    func(t *testing.T) afero.Fs
		wantIs   error
		name     string
		contains string
	}{
		{
			name: "missing file",
			setup: func(_ *testing.T) afero.Fs {
				return afero.NewMemMapFs()
			},
			wantIs:   os.ErrNotExist,
			contains: "failed to read",
		},
		{
			name: "invalid encoding",
			setup: func(t *testing.T) afero.Fs {
				fs := afero.NewMemMapFs()
				require.NoError(t, afero.WriteFile(fs, "target", []byte("ok\n\xff\xfe broken\n"), 0o644))
				return fs
			},
			wantIs:   ErrInvalidEncoding,
			contains: "failed to decode",
		},
		{
			name: "directory",
			setup: func(t *testing.T) afero.Fs {
				fs := afero.NewMemMapFs()
				require.NoError(t, fs.MkdirAll("target", 0o750))
				return fs
			},
			wantIs:   ErrIsDirectory,
			contains: "failed to read",
		},
		{
			name: "read-only destination",
			setup: func(t *testing.T) afero.Fs {
				base := afero.NewMemMapFs()
				require.NoError(t, afero.WriteFile(base, "target", []byte("- x\ny\n"), 0o644))
				return afero.NewReadOnlyFs(base)
			},
			contains: "failed to create output directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, _ := testutil.NewTestContext(t)
			outcome := newTestProcessor(tt.setup(t)).Process(ctx, Task{ID: "target", Input: "target"})

			require.Error(t, outcome.Err)
			assert.Equal(t, StatusFailed, outcome.Status)
			assert.True(t, outcome.Failed())
			assert.Contains(t, outcome.Err.Error(), tt.contains)
			if tt.wantIs != nil {
				assert.True(t, errors.Is(outcome.Err, tt.wantIs), "got %v", outcome.Err)
			}
		})
	}
}

func TestProcessLogsAtDebug(t *testing.T) {
	t.Parallel()

	ctx, getLogs := testutil.NewTestContext(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "corpus.pt", []byte("a\n"), 0o644))

	newTestProcessor(fs).Process(ctx, Task{ID: "corpus.pt", Input: "corpus.pt"})

	logs := getLogs()
	assert.Contains(t, logs, `"file":"corpus.pt"`)
	assert.Contains(t, logs, "file processed")
}

func TestTaskDestination(t *testing.T) {
	t.Parallel()

	inPlace := Task{Input: "a"}
	assert.Equal(t, "a", inPlace.Destination())
	assert.True(t, inPlace.InPlace())

	elsewhere := Task{Input: "a", Output: "b"}
	assert.Equal(t, "b", elsewhere.Destination())
	assert.False(t, elsewhere.InPlace())

	same := Task{Input: "a", Output: "a"}
	assert.True(t, same.InPlace())
}
