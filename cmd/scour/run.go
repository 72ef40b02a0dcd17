package main

import (
	"runtime"

	"github.com/spf13/cobra"
	"github.com/wizzomafizzo/scour/internal/cli"
	"github.com/wizzomafizzo/scour/internal/constants"
	"github.com/wizzomafizzo/scour/internal/core/batch"
	"github.com/wizzomafizzo/scour/internal/progress"
)

type runFlags struct {
	languages   string
	inputDir    string
	outputDir   string
	metricsFile string
	workers     int
	dryRun      bool
	noProgress  bool
}

func addRunFlags(cmd *cobra.Command, flags *runFlags) {
	f := cmd.Flags()
	f.StringVarP(&flags.languages, "languages", "l", constants.DefaultLanguages,
		"Comma separated language suffixes; empty treats arguments as file paths")
	f.StringVarP(&flags.inputDir, "input-dir", "i", ".", "Directory holding the input files")
	f.StringVarP(&flags.outputDir, "output-dir", "o", "", "Directory for cleaned files (default: rewrite in place)")
	f.IntVarP(&flags.workers, "workers", "w", runtime.NumCPU(), "Files processed in parallel")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Print cleaned text instead of writing files")
	f.BoolVar(&flags.noProgress, "no-progress", false, "Never draw a progress bar")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "Write prometheus metrics in textfile format to this path")
}

// createRunCommand creates the run command.
func createRunCommand(env *environment) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run corpus...",
		Short: "Clean every <corpus>.<lang> file",
		Long: "Clean every <input-dir>/<corpus>.<lang> file with the rule file, in parallel.\n" +
			"All files are attempted; the exit status is 1 if any of them failed.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, env, flags, args)
		},
	}
	addRunFlags(cmd, flags)
	return cmd
}

func runBatch(cmd *cobra.Command, env *environment, flags *runFlags, args []string) error {
	app, err := env.createApp(cmd)
	if err != nil {
		return err
	}

	_, err = app.Run(cmd.Context(), cli.RunOptions{
		RunID:       env.runID,
		Corpora:     args,
		Languages:   batch.ParseLanguages(flags.languages),
		InputDir:    flags.inputDir,
		OutputDir:   flags.outputDir,
		Workers:     flags.workers,
		DryRun:      flags.dryRun,
		Progress:    progress.Enabled(env.terminal, flags.noProgress),
		MetricsFile: flags.metricsFile,
	})
	return err //nolint:wrapcheck // exit code is derived from the error type
}
