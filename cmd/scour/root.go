package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/wizzomafizzo/scour/internal/cli"
	"github.com/wizzomafizzo/scour/internal/constants"
	"github.com/wizzomafizzo/scour/internal/core/logging"
	"github.com/wizzomafizzo/scour/internal/storage"
)

// environment holds what the commands touch outside of their flags.
type environment struct {
	fs afero.Fs
	// logWriter replaces the rotating log file when set.
	logWriter io.Writer
	console   io.Writer
	// terminal is where the progress bar is drawn, if it is a tty.
	terminal *os.File
	runID    string
}

func defaultEnvironment() *environment {
	return &environment{
		fs:       afero.NewOsFs(),
		console:  os.Stderr,
		terminal: os.Stderr,
	}
}

// createNewRootCommand creates the root command. Given corpus arguments it
// behaves like "scour run".
func createNewRootCommand() *cobra.Command {
	return newRootCommand(defaultEnvironment())
}

func newRootCommand(env *environment) *cobra.Command {
	flags := &runFlags{}

	rootCmd := &cobra.Command{
		Use:           "scour [corpus...]",
		Short:         "Clean text corpora with ordered regex rules",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.initLogging(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runBatch(cmd, env, flags, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringP("patterns", "p", constants.PatternsFilename, "Path to rule file")
	pf.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	pf.String("log-file", "", "Log file (default $XDG_DATA_HOME/scour/scour.log)")
	pf.BoolP("verbose", "v", false, "Also print log events to stderr")

	addRunFlags(rootCmd, flags)

	rootCmd.AddCommand(
		createRunCommand(env),
		createValidateCommand(env),
		createRulesCommand(env),
		createTryCommand(env),
		createInitCommand(env),
	)

	return rootCmd
}

// initLogging attaches a logger for this invocation to the command context.
func (env *environment) initLogging(cmd *cobra.Command) error {
	levelName, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err //nolint:wrapcheck // message names the flag value
	}
	logFile, err := cmd.Flags().GetString("log-file")
	if err != nil {
		return fmt.Errorf("failed to get log-file flag: %w", err)
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}

	env.runID = uuid.NewString()
	config := logging.Config{
		Writer: env.logWriter,
		Path:   logFile,
		RunID:  env.runID,
		Level:  level,
	}
	if verbose && env.console != nil {
		config.Console = env.console
		config.ConsoleLevel = level
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, err := logging.New(parent, env.fs, config)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logging.Get(ctx).Debug().Str("command", cmd.CommandPath()).Msg("starting")
	cmd.SetContext(ctx)
	return nil
}

// patternsPath resolves the rule file from the --patterns flag, falling back
// to the per-user file when the flag was not given.
func (env *environment) patternsPath(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString("patterns")
	if err != nil {
		return "", fmt.Errorf("failed to get patterns flag: %w", err)
	}
	return storage.New(env.fs).ResolvePatternsPath(path, cmd.Flags().Changed("patterns")), nil
}

// createApp creates a CLI app for the rule file selected on cmd.
func (env *environment) createApp(cmd *cobra.Command) (*cli.App, error) {
	path, err := env.patternsPath(cmd)
	if err != nil {
		return nil, err
	}
	return cli.NewApp(env.fs, path, cli.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())), nil
}
