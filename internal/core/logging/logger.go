package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/wizzomafizzo/scour/internal/storage"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 10
	maxLogBackups = 3
	maxLogAgeDays = 30
)

// Log levels - aliases for zerolog levels
const (
	PanicLevel = zerolog.PanicLevel
	FatalLevel = zerolog.FatalLevel
	ErrorLevel = zerolog.ErrorLevel
	WarnLevel  = zerolog.WarnLevel
	InfoLevel  = zerolog.InfoLevel
	DebugLevel = zerolog.DebugLevel
	TraceLevel = zerolog.TraceLevel
)

// Config defines the configuration for logger creation
type Config struct {
	// Writer replaces the rotating log file, typically in tests.
	Writer io.Writer
	// Console, when set, additionally receives human readable events at
	// ConsoleLevel and above.
	Console      io.Writer
	Path         string
	RunID        string
	Level        zerolog.Level
	ConsoleLevel zerolog.Level
}

// New creates a new context with a logger attached
// For production: provide fs and leave Writer nil for file logging
// For tests: provide a custom Writer (like strings.Builder) for in-memory logging
func New(ctx context.Context, fs afero.Fs, config Config) (context.Context, error) {
	var writer io.Writer

	if config.Writer != nil {
		writer = config.Writer
	} else {
		if fs == nil {
			return nil, errors.New("filesystem required when no writer provided")
		}

		logFile := config.Path
		if logFile == "" {
			var err error
			logFile, err = storage.New(fs).GetLogPath()
			if err != nil {
				return nil, fmt.Errorf("failed to get log path: %w", err)
			}
		}

		writer = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
		}
	}

	if config.Console != nil {
		console := zerolog.ConsoleWriter{Out: config.Console, TimeFormat: time.Kitchen}
		writer = zerolog.MultiLevelWriter(writer, &levelFilter{writer: console, min: config.ConsoleLevel})
	}

	logger := zerolog.New(writer).With().
		Timestamp().
		Str("run_id", config.RunID).
		Logger().
		Level(config.Level)

	return logger.WithContext(ctx), nil
}

// ParseLevel parses a level name, defaulting to info for an empty string.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// Get retrieves the logger from the provided context
// Returns the logger associated with the context, or a disabled logger if none exists
func Get(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// levelFilter drops events below min before they reach writer.
type levelFilter struct {
	writer io.Writer
	min    zerolog.Level
}

func (f *levelFilter) Write(p []byte) (int, error) {
	return f.writer.Write(p) //nolint:wrapcheck // pass-through writer
}

func (f *levelFilter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < f.min {
		return len(p), nil
	}
	return f.writer.Write(p) //nolint:wrapcheck // pass-through writer
}
