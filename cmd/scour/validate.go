package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createValidateCommand creates the validate command.
func createValidateCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the rule file loads and every pattern compiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := env.createApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ValidateConfig(cmd.Context())
			if err != nil {
				return fmt.Errorf("validation error: %w", err)
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), result)
			return nil
		},
	}
}
