package logging

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestConfig(writer *strings.Builder) Config {
	return Config{
		Writer: writer,
		RunID:  "test-run",
		Level:  InfoLevel,
	}
}

func TestGet_WithoutLogger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	logger := Get(ctx)

	require.NotNil(t, logger)
	// When no logger is attached, zerolog.Ctx returns a disabled logger
	require.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestNew_WithCustomWriter(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	config := createTestConfig(&buf)

	ctx, err := New(context.Background(), nil, config)

	require.NoError(t, err)
	require.NotNil(t, ctx)

	logger := Get(ctx)
	require.NotNil(t, logger)
	assert.Equal(t, InfoLevel, logger.GetLevel())
}

func TestNew_NoWriterNoFilesystem_ReturnsError(t *testing.T) {
	t.Parallel()

	config := Config{
		Writer: nil, // No writer provided
		RunID:  "test-run",
		Level:  InfoLevel,
	}

	ctx, err := New(context.Background(), nil, config) // No filesystem provided

	require.Error(t, err)
	assert.Contains(t, err.Error(), "filesystem required when no writer provided")
	assert.Nil(t, ctx)
}

func TestNew_RunIDField(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	ctx, err := New(context.Background(), nil, createTestConfig(&buf))
	require.NoError(t, err)

	Get(ctx).Info().Str("file", "corpus.en").Msg("file processed")

	output := buf.String()
	assert.Contains(t, output, `"run_id":"test-run"`)
	assert.Contains(t, output, `"file":"corpus.en"`)
	assert.Contains(t, output, `"message":"file processed"`)
}

func TestNew_LevelFiltersEvents(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	ctx, err := New(context.Background(), nil, createTestConfig(&buf))
	require.NoError(t, err)

	Get(ctx).Debug().Msg("hidden debug")
	Get(ctx).Warn().Msg("visible warning")

	assert.NotContains(t, buf.String(), "hidden debug")
	assert.Contains(t, buf.String(), "visible warning")
}

func TestNew_ConsoleReceivesOnlyAboveConsoleLevel(t *testing.T) {
	t.Parallel()

	var file, console strings.Builder
	ctx, err := New(context.Background(), nil, Config{
		Writer:       &file,
		Console:      &console,
		RunID:        "test-run",
		Level:        DebugLevel,
		ConsoleLevel: WarnLevel,
	})
	require.NoError(t, err)

	Get(ctx).Info().Msg("routine event")
	Get(ctx).Error().Str("path", "raw/corpus.de").Msg("file failed")

	assert.Contains(t, file.String(), "routine event")
	assert.Contains(t, file.String(), "file failed")
	assert.NotContains(t, console.String(), "routine event")
	assert.Contains(t, console.String(), "file failed")
	assert.Contains(t, console.String(), "raw/corpus.de")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{name: "empty defaults to info", input: "", want: InfoLevel},
		{name: "debug", input: "debug", want: DebugLevel},
		{name: "warn", input: "warn", want: WarnLevel},
		{name: "invalid", input: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}
}
