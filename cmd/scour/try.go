package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createTryCommand creates the command that explains how lines are cleaned.
func createTryCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "try [line...]",
		Short: "Show how lines would be cleaned",
		Long: "Show which rule removes or rewrites each line. Without arguments an\n" +
			"interactive prompt reads lines until Ctrl+D.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := env.createApp(cmd)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				return app.TryInteractive(cmd.Context()) //nolint:wrapcheck // exit code is derived from the error type
			}

			output, err := app.Try(cmd.Context(), args)
			if err != nil {
				return err //nolint:wrapcheck // exit code is derived from the error type
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), output)
			return nil
		},
	}
}
